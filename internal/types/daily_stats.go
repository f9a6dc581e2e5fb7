package types

// DailyQueueStats is one queue's rollup for one calendar day, archived to DynamoDB
type DailyQueueStats struct {
	DateKey          string  `json:"dateKey" dynamodbav:"DateKey"` // YYYY-MM-DD (partition key)
	Queue            string  `json:"queue" dynamodbav:"Queue"`     // sort key
	DatasetID        string  `json:"datasetId" dynamodbav:"DatasetID"`
	Source           Source  `json:"source" dynamodbav:"Source"`
	Total            int     `json:"total" dynamodbav:"Total"`
	Answered         int     `json:"answered" dynamodbav:"Answered"`
	Abandoned        int     `json:"abandoned" dynamodbav:"Abandoned"`
	Transferred      int     `json:"transferred" dynamodbav:"Transferred"`
	AbandonRate      float64 `json:"abandonRate" dynamodbav:"AbandonRate"`           // 0-100%
	AvgWaitSeconds   int     `json:"avgWaitSeconds" dynamodbav:"AvgWaitSeconds"`     // zero durations excluded
	AvgHandleSeconds int     `json:"avgHandleSeconds" dynamodbav:"AvgHandleSeconds"` // zero durations excluded
}
