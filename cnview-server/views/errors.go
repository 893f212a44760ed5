package views

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/genomeview/cnview/bands"
	"github.com/genomeview/cnview/genomics"
	"github.com/genomeview/cnview/internal/tabular"
	"github.com/genomeview/cnview/view"
)

var errMissingCallsTable = errors.New("no calls table specified")

// apiError is an error with a wire name and HTTP status.
type apiError struct {
	name  string
	code  int
	cause error
}

func (err *apiError) Error() string {
	return fmt.Sprintf("%s (%d): %v", err.name, err.code, err.cause)
}

func newInvalidInputError(context string, err error) error {
	return &apiError{"InvalidInput", http.StatusBadRequest, fmt.Errorf("%s: %v", context, err)}
}

// writeError maps an error from the view builder onto the wire: the error
// taxonomy gets stable names and statuses, anything else is an internal
// error.
func writeError(c *gin.Context, err error) {
	var (
		schema     *tabular.SchemaError
		invalid    *view.InvalidParameterError
		notFound   *view.ChromosomeNotFoundError
		emptyInput *genomics.EmptyInputError
		lookup     *bands.LookupError
		api        *apiError
	)
	switch {
	case errors.As(err, &api):
	case errors.As(err, &schema):
		api = &apiError{"SchemaError", http.StatusBadRequest, err}
	case errors.As(err, &invalid):
		api = &apiError{"InvalidParameter", http.StatusBadRequest, err}
	case errors.As(err, &notFound):
		api = &apiError{"ChromosomeNotFound", http.StatusNotFound, err}
	case errors.As(err, &emptyInput):
		api = &apiError{"EmptyInput", http.StatusUnprocessableEntity, err}
	case errors.As(err, &lookup):
		api = &apiError{"LookupFailed", http.StatusBadGateway, err}
	default:
		api = &apiError{"InternalError", http.StatusInternalServerError, err}
	}

	c.JSON(api.code, gin.H{
		"error":   api.name,
		"message": fmt.Sprintf("%s: %v", http.StatusText(api.code), api.cause),
	})
}
