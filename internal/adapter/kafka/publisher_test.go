package kafka

import (
	"testing"
	"time"

	"github.com/couchcryptid/accident-data-prep/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessagesForDataset(t *testing.T) {
	generated := time.Date(2024, 3, 1, 6, 0, 0, 0, time.UTC)
	sev := 2.5
	ds := domain.Dataset{
		GeneratedAt: generated,
		Aggregates: []domain.Aggregate{
			{
				Name:         "state_data",
				Label:        "State",
				WithSeverity: true,
				Rows: []domain.AggregateRow{
					{Value: "TX", Count: 2, AvgSeverity: &sev},
					{Value: "CA", Count: 1},
				},
			},
			{
				Name:  "hour_data",
				Label: "Hour",
				Rows: []domain.AggregateRow{
					{Value: "08", Count: 3},
				},
			},
		},
	}

	msgs := messagesForDataset(ds)
	require.Len(t, msgs, 3)

	assert.Equal(t, []byte("state_data|TX"), msgs[0].Key)
	assert.JSONEq(t,
		`{"aggregate":"state_data","value":"TX","count":2,"avg_severity":2.5,"generated_at":"2024-03-01T06:00:00Z"}`,
		string(msgs[0].Value))

	assert.JSONEq(t,
		`{"aggregate":"state_data","value":"CA","count":1,"generated_at":"2024-03-01T06:00:00Z"}`,
		string(msgs[1].Value), "nil severity mean is omitted")

	assert.Equal(t, []byte("hour_data|08"), msgs[2].Key)

	for _, msg := range msgs {
		require.Len(t, msg.Headers, 2)
		assert.Equal(t, "aggregate", msg.Headers[0].Key)
		assert.Equal(t, "generated_at", msg.Headers[1].Key)
		assert.Equal(t, []byte("2024-03-01T06:00:00Z"), msg.Headers[1].Value)
	}
}

func TestMessagesForDataset_Empty(t *testing.T) {
	assert.Empty(t, messagesForDataset(domain.Dataset{}))
}
