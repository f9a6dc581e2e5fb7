package storage

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	dbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog"

	"github.com/dennisdiepolder/monti/analytics/internal/types"
)

// batchWriteLimit is the DynamoDB maximum of requests per BatchWriteItem
const batchWriteLimit = 25

// DynamoDBStore implements Store using AWS DynamoDB
type DynamoDBStore struct {
	client *dynamodb.Client
	config DynamoConfig
	logger zerolog.Logger
}

// NewDynamoDBStore creates a new DynamoDB store
func NewDynamoDBStore(ctx context.Context, cfg DynamoConfig, logger zerolog.Logger) (*DynamoDBStore, error) {
	var client *dynamodb.Client

	if cfg.Mode == DynamoModeLocal {
		// LoadDefaultConfig probes the EC2 IMDS endpoint, which hangs when
		// static credentials are intended.
		client = dynamodb.New(dynamodb.Options{
			Region:       cfg.Region,
			BaseEndpoint: aws.String(cfg.Endpoint),
			Credentials:  credentials.NewStaticCredentialsProvider("local", "local", ""),
		})
	} else {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		client = dynamodb.NewFromConfig(awsCfg)
	}

	store := &DynamoDBStore{
		client: client,
		config: cfg,
		logger: logger,
	}

	if cfg.Mode == DynamoModeLocal {
		if err := CreateTablesIfNotExist(ctx, client, cfg, logger); err != nil {
			return nil, err
		}
	}

	logger.Info().
		Str("mode", string(cfg.Mode)).
		Str("region", cfg.Region).
		Str("table", cfg.DailyStatsTable).
		Msg("DynamoDB store initialized")

	return store, nil
}

// SaveDailyQueueStats writes the rollups in batches. Items with the same
// (DateKey, Queue) are overwritten, so archiving a reloaded dataset is
// idempotent.
func (s *DynamoDBStore) SaveDailyQueueStats(ctx context.Context, stats []types.DailyQueueStats) error {
	for i := 0; i < len(stats); i += batchWriteLimit {
		end := min(i+batchWriteLimit, len(stats))

		requests := make([]dbtypes.WriteRequest, 0, end-i)
		for _, st := range stats[i:end] {
			item, err := attributevalue.MarshalMap(st)
			if err != nil {
				return fmt.Errorf("failed to marshal daily queue stats: %w", err)
			}
			requests = append(requests, dbtypes.WriteRequest{PutRequest: &dbtypes.PutRequest{Item: item}})
		}

		if err := s.batchWrite(ctx, requests); err != nil {
			return fmt.Errorf("failed to save daily queue stats: %w", err)
		}
	}
	return nil
}

// batchWrite retries unprocessed items until the batch is fully applied
func (s *DynamoDBStore) batchWrite(ctx context.Context, requests []dbtypes.WriteRequest) error {
	pending := map[string][]dbtypes.WriteRequest{s.config.DailyStatsTable: requests}
	for attempt := 0; len(pending) > 0; attempt++ {
		if attempt >= 5 {
			return fmt.Errorf("%d items left unprocessed", len(pending[s.config.DailyStatsTable]))
		}
		out, err := s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{RequestItems: pending})
		if err != nil {
			return err
		}
		pending = out.UnprocessedItems
	}
	return nil
}

func (s *DynamoDBStore) GetDailyQueueStats(ctx context.Context, dateKey, queue string) ([]types.DailyQueueStats, error) {
	keyCond := expression.Key(dailyStatsPK).Equal(expression.Value(dateKey))
	if queue != "" {
		keyCond = keyCond.And(expression.Key(dailyStatsSK).Equal(expression.Value(queue)))
	}
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build expression: %w", err)
	}

	paginator := dynamodb.NewQueryPaginator(s.client, &dynamodb.QueryInput{
		TableName:                 aws.String(s.config.DailyStatsTable),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})

	stats := make([]types.DailyQueueStats, 0)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to query daily queue stats: %w", err)
		}
		var batch []types.DailyQueueStats
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("failed to unmarshal daily queue stats: %w", err)
		}
		stats = append(stats, batch...)
	}
	return stats, nil
}

// NewStore creates the appropriate store based on configuration
func NewStore(ctx context.Context, logger zerolog.Logger) (Store, error) {
	cfg := LoadDynamoConfig()

	switch cfg.Mode {
	case DynamoModeLocal, DynamoModeAWS:
		return NewDynamoDBStore(ctx, cfg, logger)
	case DynamoModeMemory:
		logger.Info().Msg("archive kept in memory (DYNAMO_MODE=memory)")
		return NewMemoryStore(), nil
	default:
		logger.Info().Msg("DynamoDB disabled (DYNAMO_MODE=none)")
		return NewNoopStore(), nil
	}
}

// TruncateAll deletes every archived item (scan + batch delete)
func (s *DynamoDBStore) TruncateAll(ctx context.Context) error {
	if err := s.truncateTable(ctx, s.config.DailyStatsTable, dailyStatsPK, dailyStatsSK); err != nil {
		return fmt.Errorf("failed to truncate %s: %w", s.config.DailyStatsTable, err)
	}
	return nil
}

func (s *DynamoDBStore) truncateTable(ctx context.Context, tableName, pk, sk string) error {
	var lastKey map[string]dbtypes.AttributeValue

	for {
		input := &dynamodb.ScanInput{
			TableName:            aws.String(tableName),
			ProjectionExpression: aws.String("#pk, #sk"),
			ExpressionAttributeNames: map[string]string{
				"#pk": pk,
				"#sk": sk,
			},
			Limit: aws.Int32(500),
		}
		if lastKey != nil {
			input.ExclusiveStartKey = lastKey
		}

		result, err := s.client.Scan(ctx, input)
		if err != nil {
			return err
		}

		for i := 0; i < len(result.Items); i += batchWriteLimit {
			end := min(i+batchWriteLimit, len(result.Items))

			requests := make([]dbtypes.WriteRequest, 0, end-i)
			for _, item := range result.Items[i:end] {
				requests = append(requests, dbtypes.WriteRequest{
					DeleteRequest: &dbtypes.DeleteRequest{
						Key: map[string]dbtypes.AttributeValue{
							pk: item[pk],
							sk: item[sk],
						},
					},
				})
			}

			_, err := s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
				RequestItems: map[string][]dbtypes.WriteRequest{
					tableName: requests,
				},
			})
			if err != nil {
				return err
			}
		}

		lastKey = result.LastEvaluatedKey
		if lastKey == nil {
			break
		}
	}

	s.logger.Info().Str("table", tableName).Msg("table truncated")
	return nil
}
