package fcm

import (
	"errors"
	"net/http"
	"strings"

	"github.com/g-wilson/courier"

	"google.golang.org/api/googleapi"
)

const fcmErrorType = "type.googleapis.com/google.firebase.fcm.v1.FcmError"

var errorCodeKinds = map[string]courier.Kind{
	"INVALID_ARGUMENT": courier.KindTokenInvalid,
	"UNREGISTERED":     courier.KindTokenNotRegistered,
	"UNAVAILABLE":      courier.KindPushUnavailable,
	"INTERNAL":         courier.KindPushUnavailable,
	"QUOTA_EXCEEDED":   courier.KindPushUnavailable,
}

var statusKinds = map[int]courier.Kind{
	http.StatusBadRequest:          courier.KindTokenInvalid,
	http.StatusNotFound:            courier.KindTokenNotRegistered,
	http.StatusTooManyRequests:     courier.KindPushUnavailable,
	http.StatusInternalServerError: courier.KindPushUnavailable,
	http.StatusServiceUnavailable:  courier.KindPushUnavailable,
}

// mapError converts an API or transport error into a *courier.Error.
// The FcmError detail wins over the HTTP status when both are present.
func mapError(err error) error {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return courier.WrapError(courier.KindPushUnavailable, "", err)
	}

	kind, ok := kindFromDetails(gerr.Details)
	if !ok {
		kind, ok = statusKinds[gerr.Code]
	}
	if !ok {
		kind = courier.KindPushUnknown
	}

	return courier.WrapError(kind, gerr.Message, err)
}

func kindFromDetails(details []interface{}) (courier.Kind, bool) {
	for _, d := range details {
		m, ok := d.(map[string]interface{})
		if !ok {
			continue
		}
		if t, _ := m["@type"].(string); !strings.EqualFold(t, fcmErrorType) {
			continue
		}

		code, _ := m["errorCode"].(string)
		if kind, ok := errorCodeKinds[code]; ok {
			return kind, true
		}
	}

	return "", false
}
