package shared

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/phrazzld/account-api/internal/domain"
)

// MaxBodyBytes caps the size of a decoded request body.
const MaxBodyBytes = 1 << 20

// ErrInvalidBody is returned for bodies that are not a JSON object.
var ErrInvalidBody = domain.NewError(domain.KindBadRequest, "Invalid request format")

// DecodeJSON decodes the request body into the given struct. An empty body
// leaves v untouched so that missing fields are reported by validation.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	if r.Body == nil {
		return nil
	}
	body := http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return domain.WrapError(domain.KindBadRequest, ErrInvalidBody.Message, err)
	}
	return nil
}
