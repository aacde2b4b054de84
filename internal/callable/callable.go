package callable

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/g-wilson/courier"

	"github.com/aws/aws-lambda-go/events"
	logger "github.com/g-wilson/runtime/ctxlog"
	"github.com/sirupsen/logrus"
)

// Status codes of the callable error envelope
const (
	StatusInvalidArgument = "INVALID_ARGUMENT"
	StatusNotFound        = "NOT_FOUND"
	StatusInternal        = "INTERNAL"
)

type HandlerFunc[Req any, Res any] func(ctx context.Context, req *Req) (*Res, error)

type APIGatewayHandler func(ctx context.Context, ev events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error)

type errorBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type envelope struct {
	Result interface{} `json:"result,omitempty"`
	Error  *errorBody  `json:"error,omitempty"`
}

// WrapAPIGatewayHTTP exposes fn as a callable function behind an API Gateway HTTP API.
// The request body is {"data": <Req>} or a bare <Req>; the response is
// {"result": <Res>} or {"error": {"status", "message"}}. Only the Message of a
// *courier.Error reaches the caller, causes and other errors never do.
func WrapAPIGatewayHTTP[Req any, Res any](log *logrus.Entry, fn HandlerFunc[Req, Res]) APIGatewayHandler {
	return func(ctx context.Context, ev events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		reqLog := log.WithField("request_id", ev.RequestContext.RequestID)
		ctx = logger.SetContext(ctx, reqLog)

		if ev.RequestContext.HTTP.Method != "" && ev.RequestContext.HTTP.Method != http.MethodPost {
			return respondError(reqLog, courier.NewError(courier.KindInvalidArgument, "Request method must be POST")), nil
		}

		req := new(Req)
		err := decodeBody(ev, req)
		if err != nil {
			reqLog.WithError(err).Debug("callable: malformed request body")

			return respondError(reqLog, courier.NewError(courier.KindInvalidArgument, "Bad Request")), nil
		}

		res, err := fn(ctx, req)
		if err != nil {
			return respondError(reqLog, err), nil
		}

		return respond(http.StatusOK, envelope{Result: res}), nil
	}
}

func decodeBody(ev events.APIGatewayV2HTTPRequest, out interface{}) error {
	body := []byte(ev.Body)
	if ev.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(ev.Body)
		if err != nil {
			return err
		}
		body = decoded
	}

	if len(body) == 0 {
		body = []byte("{}")
	}

	wrapper := map[string]json.RawMessage{}
	err := json.Unmarshal(body, &wrapper)
	if err != nil {
		return err
	}

	if data, ok := wrapper["data"]; ok {
		body = data
	}

	return json.Unmarshal(body, out)
}

func respondError(log *logrus.Entry, err error) events.APIGatewayV2HTTPResponse {
	kind := courier.KindOf(err)
	httpStatus, status := statusForKind(kind)

	message := status
	var cErr *courier.Error
	if errors.As(err, &cErr) && cErr.Message != "" {
		message = cErr.Message
	}

	if httpStatus >= http.StatusInternalServerError {
		log.WithError(err).Error("callable: request failed")
	} else {
		log.WithField("error_kind", kind).Info("callable: request rejected")
	}

	return respond(httpStatus, envelope{Error: &errorBody{Status: status, Message: message}})
}

func statusForKind(kind courier.Kind) (int, string) {
	switch kind {
	case courier.KindInvalidArgument:
		return http.StatusBadRequest, StatusInvalidArgument
	case courier.KindNotFound:
		return http.StatusNotFound, StatusNotFound
	default:
		return http.StatusInternalServerError, StatusInternal
	}
}

func respond(status int, body envelope) events.APIGatewayV2HTTPResponse {
	raw, err := json.Marshal(body)
	if err != nil {
		status = http.StatusInternalServerError
		raw = []byte(`{"error":{"status":"INTERNAL","message":"INTERNAL"}}`)
	}

	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(raw),
	}
}
