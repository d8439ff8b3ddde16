package parse

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseBriefFullMarkers(t *testing.T) {
	raw := `Title: The Future of Compute
Overview: A thread about hardware trends.
Bullets:
- Chips are getting specialized
- Memory bandwidth is the bottleneck
WhyItMatters: Everyone building software sits on this stack.`

	b := ParseBrief(raw)

	assert.Equal(t, "The Future of Compute", b.Title)
	assert.Equal(t, "A thread about hardware trends.", b.Overview)
	assert.Equal(t, []string{
		"Chips are getting specialized",
		"Memory bandwidth is the bottleneck",
	}, b.Bullets)
	assert.Equal(t, "Everyone building software sits on this stack.", b.WhyItMatters)
}

func TestParseBriefCaseInsensitiveMarkers(t *testing.T) {
	raw := "TITLE: Shouty\noverview: quiet\nBULLETS:\n- one\nwhyitmatters: reasons"

	b := ParseBrief(raw)

	assert.Equal(t, "Shouty", b.Title)
	assert.Equal(t, "quiet", b.Overview)
	assert.Equal(t, []string{"one"}, b.Bullets)
	assert.Equal(t, "reasons", b.WhyItMatters)
}

func TestParseBriefNoMarkers(t *testing.T) {
	b := ParseBrief("just some freeform text with no structure at all")

	assert.Equal(t, DefaultTitle, b.Title)
	assert.Equal(t, DefaultOverview, b.Overview)
	assert.Empty(t, b.Bullets)
	assert.Empty(t, b.WhyItMatters)
}

func TestParseBriefDashFallback(t *testing.T) {
	raw := `Some intro line
- first point
- second point
not a bullet
- third point`

	b := ParseBrief(raw)

	assert.Equal(t, []string{"first point", "second point", "third point"}, b.Bullets)
}

func TestParseBriefEmptyBulletBlockRescansWholeText(t *testing.T) {
	raw := `- stray one
- stray two
Bullets:
WhyItMatters: x`

	b := ParseBrief(raw)

	assert.Equal(t, []string{"stray one", "stray two"}, b.Bullets)
}

func TestParseBriefLooseDashSpacing(t *testing.T) {
	b := ParseBrief("Bullets:\n-A\n  - B\n")

	assert.Equal(t, []string{"A", "B"}, b.Bullets)
}

func TestParseBriefBulletsStopAtWhySection(t *testing.T) {
	raw := `Bullets:
- inside the block
WhyItMatters: context here
- stray dash after the why section`

	b := ParseBrief(raw)

	assert.Equal(t, []string{"inside the block"}, b.Bullets)
	assert.Equal(t, "context here", b.WhyItMatters)
}

func TestParseBriefBulletCap(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("Bullets:\n")
	for i := 0; i < 20; i++ {
		fmt.Fprintf(&sb, "- point %d\n", i)
	}

	b := ParseBrief(sb.String())

	assert.Len(t, b.Bullets, 12)
	assert.Equal(t, "point 0", b.Bullets[0])
	assert.Equal(t, "point 11", b.Bullets[11])
}

func TestParseBriefSkipsEmptyBullets(t *testing.T) {
	b := ParseBrief("Bullets:\n- real point\n-   \n- another")

	assert.Equal(t, []string{"real point", "another"}, b.Bullets)
}
