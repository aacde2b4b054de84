package sendverificationemail

import (
	"embed"
	"fmt"

	"github.com/g-wilson/courier"

	"github.com/g-wilson/runtime/schema"
	"github.com/sirupsen/logrus"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var fs embed.FS

// Presence only, there is no format validation of the address or code.
var requestSchema = mustCompile(schema.MustLoad(fs, "schema.json"))

func mustCompile(loader gojsonschema.JSONLoader) *gojsonschema.Schema {
	sc, err := gojsonschema.NewSchema(loader)
	if err != nil {
		panic(fmt.Errorf("cannot compile request schema: %w", err))
	}

	return sc
}

func validateRequest(log *logrus.Entry, req *Request) error {
	res, err := requestSchema.Validate(gojsonschema.NewGoLoader(req))
	if err != nil {
		log.WithError(err).Debug("request could not be validated")

		return courier.ErrMissingParameters
	}

	if !res.Valid() {
		reasons := make([]string, 0, len(res.Errors()))
		for _, re := range res.Errors() {
			reasons = append(reasons, re.String())
		}
		log.WithField("reasons", reasons).Debug("request failed schema validation")

		return courier.ErrMissingParameters
	}

	return nil
}
