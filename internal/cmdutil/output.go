package cmdutil

import (
	"errors"
	"fmt"

	oerrors "github.com/safespot/droidcfg/internal/errors"
	"github.com/safespot/droidcfg/internal/output"
	"github.com/safespot/droidcfg/internal/profile"
)

// PrintLoadError prints a profile load or validation error in a
// user-friendly format: one line per rejected field, or the structured
// details of a DetailError.
func PrintLoadError(path string, err error) {
	log := output.ProfileLogger(path)

	var verrs profile.ValidationErrors
	var detail *oerrors.DetailError
	switch {
	case errors.As(err, &verrs):
		log.Error(fmt.Sprintf("%d validation error(s)", len(verrs)))
		for _, e := range verrs {
			log.Error(e.Message, "field", e.Field)
		}
	case errors.As(err, &detail):
		keyvals := []interface{}{"type", detail.Type}
		if detail.Location != "" {
			keyvals = append(keyvals, "location", detail.Location)
		}
		if detail.Field != "" {
			keyvals = append(keyvals, "field", detail.Field)
		}
		log.Error(detail.Message, keyvals...)
		if detail.Hint != "" {
			log.Info(detail.Hint)
		}
	default:
		log.Error(err.Error())
	}
}

// PrintWarnings logs each warning of a profile.
func PrintWarnings(path string, warnings []string) {
	log := output.ProfileLogger(path)
	for _, w := range warnings {
		log.Warn(w)
	}
}

// Exit wraps err in an ExitError carrying the exit code of its sentinel.
// printed records that the error was already reported to the user.
func Exit(err error, printed bool) error {
	if err == nil {
		return nil
	}
	var exitErr *oerrors.ExitError
	if errors.As(err, &exitErr) {
		return err
	}
	return &oerrors.ExitError{Code: oerrors.ExitCodeFor(err), Err: err, Printed: printed}
}
