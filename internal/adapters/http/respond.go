package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"churchsite/internal/adapters/payment"
	"churchsite/internal/adapters/storage"
	"churchsite/internal/application/orchestrators"
	"churchsite/internal/domain/account"
	"churchsite/internal/domain/campaign"
	"churchsite/internal/domain/event"
	"churchsite/internal/domain/newsletter"
	"churchsite/internal/domain/outbox"
)

// maxBodyBytes bounds JSON and form bodies.
const maxBodyBytes = 1 << 20

var validate = validator.New(validator.WithRequiredStructEnabled())

// generateID creates a new UUID string.
func generateID() string {
	return uuid.NewString()
}

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, r *http.Request, err error) {
	log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("internal_error")
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// decodeAndValidate reads a JSON DTO and runs its validate tags.
// On failure it has already written a 400 and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := strictDecode(w, r, v); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	if err := validate.Struct(v); err != nil {
		http.Error(w, validationMessage(err), http.StatusBadRequest)
		return false
	}
	return true
}

// validationMessage turns validator errors into one plain-text line per field.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid request"
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "email":
			msgs = append(msgs, field+" must be an email address")
		case "max":
			msgs = append(msgs, field+" is too long")
		case "min":
			msgs = append(msgs, field+" is too short")
		case "oneof":
			msgs = append(msgs, field+" must be one of: "+fe.Param())
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}
	return strings.Join(msgs, "; ")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("json_encode_failed")
	}
}

func isHTMLRequest(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html") || strings.Contains(accept, "application/xhtml+xml")
}

// statusFor maps domain and orchestrator errors onto HTTP status codes.
// Unknown errors map to 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, storage.ErrNotFound),
		errors.Is(err, orchestrators.ErrUnknownUnsubscribeToken):
		return http.StatusNotFound
	case errors.Is(err, orchestrators.ErrInvalidCredentials),
		errors.Is(err, orchestrators.ErrInvalidSession):
		return http.StatusUnauthorized
	case errors.Is(err, orchestrators.ErrAccountLocked):
		return http.StatusTooManyRequests
	case errors.Is(err, orchestrators.ErrUsernameTaken),
		errors.Is(err, event.ErrEventFull),
		errors.Is(err, event.ErrRegistrationShut),
		errors.Is(err, event.ErrEventConcluded),
		errors.Is(err, campaign.ErrCampaignClosed),
		errors.Is(err, outbox.ErrNotAbandonable):
		return http.StatusConflict
	case errors.Is(err, payment.ErrDisabled):
		return http.StatusServiceUnavailable
	case isValidationError(err):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// validationErrors are the rule violations whose message is safe to show.
var validationErrors = []error{
	event.ErrEmptyTitle, event.ErrTitleTooLong, event.ErrEmptyDate, event.ErrEmptyTime,
	event.ErrInvalidCapacity, event.ErrNegativeCount, event.ErrEmptyName, event.ErrEmptyEmail,
	event.ErrInvalidEmail, event.ErrMissingEventID, event.ErrNotesTooLong, event.ErrDescTooLong,
	event.ErrLocationTooLong, event.ErrUnparseableDateTime,
	campaign.ErrEmptyTitle, campaign.ErrTitleTooLong, campaign.ErrDescTooLong, campaign.ErrEmptyEndDate,
	campaign.ErrInvalidAmount, campaign.ErrInvalidRaised, campaign.ErrNoGoal, campaign.ErrUnparseableEndDate,
	newsletter.ErrEmptyEmail, newsletter.ErrInvalidEmail, newsletter.ErrEmailTooLong,
	account.ErrEmptyUsername, account.ErrInvalidUsername, account.ErrInvalidEmail, account.ErrEmailTooLong,
	account.ErrInvalidRole, account.ErrEmptyPassword, account.ErrPasswordTooShort,
	orchestrators.ErrDonationTooSmall,
}

func isValidationError(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	var ve contentValidationError
	return errors.As(err, &ve)
}

// contentValidationError marks a display record that failed its Validate.
type contentValidationError struct{ err error }

func (e contentValidationError) Error() string { return e.err.Error() }
func (e contentValidationError) Unwrap() error { return e.err }

// writeError writes err as plain text with its mapped status.
// 5xx errors are logged and replaced with a generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		internalError(w, r, err)
		return
	}
	msg := err.Error()
	if errors.Is(err, storage.ErrNotFound) {
		msg = "not found"
	}
	http.Error(w, msg, status)
}

func hostOf(origin string) string {
	u, err := url.Parse(origin)
	if err != nil {
		return ""
	}
	return u.Host
}
