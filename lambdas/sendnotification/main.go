package main

import (
	"github.com/g-wilson/courier/handlers/sendnotification"

	"github.com/aws/aws-lambda-go/lambda"
)

func main() {
	handler, err := sendnotification.Init()
	if err != nil {
		panic(err)
	}

	lambda.StartHandler(handler)
}
