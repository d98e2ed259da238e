package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/roach88/featureql/internal/catalog"
	"github.com/roach88/featureql/internal/crs"
	"github.com/roach88/featureql/internal/queryir"
)

// Error codes for command-level failures. Query failures use the
// queryir codes (INVALID_PARAMETER, NOT_FOUND, ...) instead.
const (
	ErrCodeGeneric        = "E001" // Generic/unknown error
	ErrCodeNotFound       = "E005" // Path not found
	ErrCodeCatalogInvalid = "E201" // Catalogue failed consistency checks (columns, CRS, limits)
	ErrCodeCatalogCUE     = "E202" // Catalogue has a CUE syntax or schema error
	ErrCodeNoDatabase     = "E301" // No DSN configured
	ErrCodeDatabase       = "E302" // Connecting to the database failed
)

// LoadError represents an error that occurred while loading the catalogue.
type LoadError struct {
	Code    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// LoadCatalog reads and compiles the catalogue at path against the
// default CRS registry.
func LoadCatalog(path string) (*catalog.Catalog, *crs.Registry, error) {
	reg := crs.Default()

	cat, err := catalog.Load(path, reg)
	if err != nil {
		var compileErr *catalog.CompileError
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return nil, nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("catalog not found: %s", path), Err: err}
		case errors.As(err, &compileErr) && compileErr.Field == "cue":
			return nil, nil, &LoadError{Code: ErrCodeCatalogCUE, Message: compileErr.Error(), Err: err}
		case errors.As(err, &compileErr):
			return nil, nil, &LoadError{Code: ErrCodeCatalogInvalid, Message: compileErr.Error(), Err: err}
		default:
			return nil, nil, &LoadError{Code: ErrCodeGeneric, Message: err.Error(), Err: err}
		}
	}
	return cat, reg, nil
}

// outputLoadError reports a catalogue failure (exit code 2).
func outputLoadError(formatter *OutputFormatter, err error) error {
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		loadErr = &LoadError{Code: ErrCodeGeneric, Message: err.Error(), Err: err}
	}
	_ = formatter.Error(loadErr.Code, loadErr.Message, nil)
	return WrapExitError(ExitCommandError, "load catalog", err)
}

// outputQueryError reports a rejected or failed query (exit code 1).
func outputQueryError(formatter *OutputFormatter, err error) error {
	var qe *queryir.Error
	if errors.As(err, &qe) {
		var details any
		if qe.Param != "" {
			details = map[string]string{"param": qe.Param}
		}
		message := qe.Message
		if qe.Param != "" {
			message = qe.Param + ": " + message
		}
		if qe.Err != nil {
			message = fmt.Sprintf("%s: %v", message, qe.Err)
		}
		_ = formatter.Error(string(qe.Code), message, details)
	} else {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
	}
	return WrapExitError(ExitFailure, "query failed", err)
}
