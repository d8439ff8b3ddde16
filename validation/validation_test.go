package validation

import (
	"testing"

	"threadbrief/models"
)

func TestValidateURL(t *testing.T) {
	v := NewValidator(nil)

	if err := v.ValidateURL("https://www.youtube.com/watch?v=abc"); err != nil {
		t.Errorf("expected valid, got %v", err)
	}
	if err := v.ValidateURL(""); err == nil {
		t.Error("expected error for empty URL")
	}
	if err := v.ValidateURL("ftp://youtube.com/watch?v=abc"); err == nil {
		t.Error("expected error for non-http scheme")
	}
	if err := v.ValidateURL("https://vimeo.com/123"); err == nil {
		t.Error("expected error for non-YouTube host")
	}
}

func TestValidateCreateRequest(t *testing.T) {
	v := NewValidator(nil)

	req := &models.CreateBriefRequest{
		SourceType: models.SourcePaste,
		Source:     "some text",
	}
	req.ApplyDefaults()
	if err := v.ValidateCreateRequest(req); err != nil {
		t.Errorf("expected valid, got %v", err)
	}

	bad := &models.CreateBriefRequest{SourceType: "rss", Source: "x"}
	bad.ApplyDefaults()
	if err := v.ValidateCreateRequest(bad); err == nil {
		t.Error("expected error for unsupported source type")
	}

	badMode := &models.CreateBriefRequest{
		SourceType: models.SourcePaste,
		Source:     "x",
		Mode:       "poetry",
		Length:     models.LengthBrief,
	}
	if err := v.ValidateCreateRequest(badMode); err == nil {
		t.Error("expected error for unsupported mode")
	}
}
