package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/careers-intake-api/internal/domain"
)

// CandidateRepo provides typed DynamoDB operations for the candidates table.
type CandidateRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewCandidateRepo(client *dynamodb.Client, tableName string) *CandidateRepo {
	return &CandidateRepo{client: client, tableName: tableName}
}

// Insert writes a new submission record. CandidateID must already be set;
// records are immutable after this call.
func (r *CandidateRepo) Insert(ctx context.Context, c *domain.Candidate) error {
	item, err := attributevalue.MarshalMap(c)
	if err != nil {
		return fmt.Errorf("marshal candidate: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put candidate: %w", err)
	}
	return nil
}

// CountByEmail returns how many submissions (qualified or rejected) exist
// for the address, via the email GSI with a COUNT projection.
func (r *CandidateRepo) CountByEmail(ctx context.Context, email string) (int, error) {
	total := 0
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(r.tableName),
			IndexName:              aws.String("email-index"),
			KeyConditionExpression: aws.String("email = :email"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":email": &types.AttributeValueMemberS{Value: email},
			},
			Select:            types.SelectCount,
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return 0, fmt.Errorf("count candidates for %s: %w", email, err)
		}
		total += int(out.Count)
		if out.LastEvaluatedKey == nil {
			return total, nil
		}
		startKey = out.LastEvaluatedKey
	}
}
