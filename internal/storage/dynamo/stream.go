package dynamo

import (
	"encoding/json"
	"fmt"

	"github.com/g-wilson/courier"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/guregu/dynamo"
)

// NotificationFromStreamImage decodes a DynamoDB stream image of the notifications table.
func NotificationFromStreamImage(image map[string]events.DynamoDBAttributeValue) (courier.Notification, error) {
	item, err := toAttributeValues(image)
	if err != nil {
		return courier.Notification{}, err
	}

	ent := Notification{}
	err = dynamo.UnmarshalItem(item, &ent)
	if err != nil {
		return courier.Notification{}, fmt.Errorf("dynamo: decoding stream image: %w", err)
	}

	return ent.ToApp(), nil
}

// The stream event and SDK attribute values share the same JSON shape.
func toAttributeValues(image map[string]events.DynamoDBAttributeValue) (map[string]*dynamodb.AttributeValue, error) {
	raw, err := json.Marshal(image)
	if err != nil {
		return nil, fmt.Errorf("dynamo: encoding stream image: %w", err)
	}

	item := map[string]*dynamodb.AttributeValue{}
	err = json.Unmarshal(raw, &item)
	if err != nil {
		return nil, fmt.Errorf("dynamo: converting stream image: %w", err)
	}

	return item, nil
}
