package extension

import (
	"errors"
	"io/fs"
	"net/http"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"

	"github.com/teemow/gworkspace/internal/auth"
	"github.com/teemow/gworkspace/internal/google"
)

// ErrorKind categorizes why a command failed.
type ErrorKind string

const (
	KindNone            ErrorKind = ""
	KindAuth            ErrorKind = "auth"
	KindAPI             ErrorKind = "api"
	KindInvalidArgument ErrorKind = "invalid_argument"
	KindFilesystem      ErrorKind = "filesystem"
	KindUnknown         ErrorKind = "unknown"
)

var (
	// ErrCommandNotFound is returned for names that are not registered.
	ErrCommandNotFound = errors.New("command not found")

	// ErrInvalidArgument is returned for arguments of the wrong type or format.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrMissingArgument is returned when a required argument is absent.
	ErrMissingArgument = errors.New("missing required argument")
)

// Result is the outcome of a command run through the registry.
// Value always holds the command's documented value: the result on success
// and the fallback on failure.
type Result struct {
	Value any
	Err   error
	Kind  ErrorKind
}

// OK reports whether the command succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// Classify maps an error onto an ErrorKind.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindNone
	}

	var (
		apiErr      *googleapi.Error
		retrieveErr *oauth2.RetrieveError
		platformErr *auth.APIError
		pathErr     *fs.PathError
	)

	switch {
	case errors.Is(err, ErrCommandNotFound),
		errors.Is(err, ErrInvalidArgument),
		errors.Is(err, ErrMissingArgument):
		return KindInvalidArgument
	case errors.Is(err, google.ErrOAuthData),
		errors.Is(err, google.ErrTokenRefresh),
		errors.As(err, &retrieveErr),
		errors.As(err, &platformErr):
		return KindAuth
	case errors.As(err, &apiErr):
		if apiErr.Code == http.StatusUnauthorized {
			return KindAuth
		}
		return KindAPI
	case errors.As(err, &pathErr):
		return KindFilesystem
	default:
		return KindUnknown
	}
}
