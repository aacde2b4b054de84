package main

import (
	"github.com/g-wilson/courier/handlers/sendverificationemail"

	"github.com/aws/aws-lambda-go/lambda"
)

func main() {
	handler, err := sendverificationemail.Init()
	if err != nil {
		panic(err)
	}

	lambda.StartHandler(handler)
}
