package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/g-wilson/courier/handlers/sendnotification"
	"github.com/g-wilson/courier/handlers/sendverificationemail"

	"github.com/aws/aws-lambda-go/lambda"
)

type initFn func() (lambda.Handler, error)

var Handlers = map[string]initFn{
	sendverificationemail.Name: sendverificationemail.Init,
	sendnotification.Name:      sendnotification.Init,
}

func main() {
	entrypoint := os.Getenv("LAMBDA_GO_ENTRYPOINT")
	if entrypoint == "" {
		panic(fmt.Errorf("no entrypoint defined, LAMBDA_GO_ENTRYPOINT=%s", entrypoint))
	}

	initFn, ok := Handlers[entrypoint]
	if !ok {
		panic(fmt.Errorf("entrypoint %s not found", entrypoint))
	}

	handler, err := initFn()
	if err != nil {
		panic(err)
	}
	if handler == nil {
		panic(errors.New("entrypoint returned nil handler"))
	}

	lambda.StartHandler(handler)
}
