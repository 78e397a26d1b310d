package cli

import (
	"errors"

	"github.com/aidanlsb/turbowiz/internal/clause"
	"github.com/aidanlsb/turbowiz/internal/wizard"
)

// Error codes for structured error responses.
// These codes are stable and can be relied upon by agents.
const (
	ErrConfigInvalid = "CONFIG_INVALID"

	ErrQueryInvalid   = "QUERY_INVALID"
	ErrPresetNotFound = "PRESET_NOT_FOUND"

	ErrFileNotFound   = "FILE_NOT_FOUND"
	ErrFileReadError  = "FILE_READ_ERROR"
	ErrFileWriteError = "FILE_WRITE_ERROR"

	ErrInvalidInput    = "INVALID_INPUT"
	ErrMissingArgument = "MISSING_ARGUMENT"

	ErrInternal = "INTERNAL_ERROR"
)

// Warning codes for non-fatal issues.
const (
	WarnUnknownConfigKey = "UNKNOWN_CONFIG_KEY"
	WarnHistoryFailed    = "HISTORY_NOT_SAVED"
)

// wizardErrorDetails is the JSON form of a *wizard.Error.
type wizardErrorDetails struct {
	Kind      string `json:"kind"`
	Condition string `json:"condition,omitempty"`
	Bounds    string `json:"bounds,omitempty"`
}

// handleWizardError reports a failed build with a code chosen by its kind.
func handleWizardError(err error) error {
	var werr *wizard.Error
	if !errors.As(err, &werr) {
		return handleError(ErrInternal, err, "")
	}

	details := wizardErrorDetails{Kind: werr.Kind.String(), Bounds: string(werr.Bounds)}
	if werr.Condition != nil {
		details.Condition = clause.Render(*werr.Condition)
	}

	code, suggestion := ErrQueryInvalid, ""
	switch werr.Kind {
	case wizard.ParseFailure:
		suggestion = "Run 'twiz syntax' for the search language"
	case wizard.FreeFormResolutionFailure:
		code = ErrPresetNotFound
		suggestion = "Run 'twiz presets' to see known presets, or use key=value"
	case wizard.InvalidOptions:
		code = ErrInvalidInput
	case wizard.UnknownBounds, wizard.UnknownConnective, wizard.UnknownConditionKind, wizard.UnknownMetaKind:
		suggestion = "Check the parse tree with 'twiz parse'"
	}
	return handleErrorWithDetails(code, err, suggestion, details)
}
