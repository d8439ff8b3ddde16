package validation

import (
	"fmt"
	"net/url"

	"threadbrief/config"
	"threadbrief/errors"
	"threadbrief/models"
	"threadbrief/utils"
)

type Validator struct {
	config *config.Config
}

func NewValidator(cfg *config.Config) *Validator {
	return &Validator{config: cfg}
}

// ValidateURL performs URL validation for YouTube sources.
func (v *Validator) ValidateURL(urlStr string) error {
	const op = "Validator.ValidateURL"

	if urlStr == "" {
		return errors.InvalidInput(op, nil, "URL is required")
	}

	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return errors.InvalidInput(op, err, "Invalid URL format")
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return errors.InvalidInput(op, nil, "URL must use HTTP or HTTPS")
	}

	if !utils.IsYouTubeURL(urlStr) {
		return errors.InvalidInput(op, nil, "Please enter a valid YouTube URL.")
	}

	return nil
}

// ValidateCreateRequest checks the enum fields of a create-brief request.
func (v *Validator) ValidateCreateRequest(req *models.CreateBriefRequest) error {
	const op = "Validator.ValidateCreateRequest"

	if req.Source == "" {
		return errors.InvalidInput(op, nil, "Source is required")
	}
	if !req.SourceType.Valid() {
		return errors.InvalidInput(op, nil, fmt.Sprintf("Unsupported source type: %s", req.SourceType))
	}
	if !req.Mode.Valid() {
		return errors.InvalidInput(op, nil, fmt.Sprintf("Unsupported mode: %s", req.Mode))
	}
	if !req.Length.Valid() {
		return errors.InvalidInput(op, nil, fmt.Sprintf("Unsupported length: %s", req.Length))
	}

	return nil
}
