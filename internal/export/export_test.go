package export

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID    int
	Name  string
	Price float64
}

var rowColumns = []Column[row]{
	{Header: "ID", Value: func(r row) string { return Int(r.ID) }},
	{Header: "Name", Value: func(r row) string { return r.Name }},
	{Header: "Price", Value: func(r row) string { return Number(r.Price) }},
}

func TestCSV(t *testing.T) {
	data, err := CSV(rowColumns, []row{
		{ID: 1, Name: "Plain", Price: 100},
		{ID: 2, Name: "Shoes, red", Price: 99.5},
		{ID: 3, Name: `Say "hi"`, Price: 0},
	})
	require.NoError(t, err)

	expected := "ID,Name,Price\n" +
		"1,Plain,100\n" +
		"2,\"Shoes, red\",99.5\n" +
		"3,\"Say \"\"hi\"\"\",0\n"
	assert.Equal(t, expected, string(data))
}

func TestCSV_Empty(t *testing.T) {
	data, err := CSV(rowColumns, nil)
	require.NoError(t, err)
	assert.Equal(t, "ID,Name,Price\n", string(data))
}

func TestDate(t *testing.T) {
	assert.Equal(t, "", Date(time.Time{}))
	assert.Equal(t, "2026-03-04 05:06", Date(time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)))
}

type mockS3 struct {
	mock.Mock
}

func (m *mockS3) PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, in)
	if out := args.Get(0); out != nil {
		return out.(*s3.PutObjectOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestS3Sink_Put(t *testing.T) {
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("Success", func(t *testing.T) {
		client := new(mockS3)
		sink := newS3Sink(client, "bucket")
		sink.now = func() time.Time { return fixed }

		client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
			body, _ := io.ReadAll(in.Body)
			return aws.ToString(in.Bucket) == "bucket" &&
				aws.ToString(in.Key) == "exports/products/20260102T030405Z.csv" &&
				string(body) == "a,b\n"
		})).Return(&s3.PutObjectOutput{}, nil)

		loc, err := sink.Put(context.Background(), "products", []byte("a,b\n"))
		require.NoError(t, err)
		assert.Equal(t, "s3://bucket/exports/products/20260102T030405Z.csv", loc)
		client.AssertExpectations(t)
	})

	t.Run("Failure", func(t *testing.T) {
		client := new(mockS3)
		sink := newS3Sink(client, "bucket")

		client.On("PutObject", mock.Anything, mock.Anything).Return(nil, errors.New("denied"))

		_, err := sink.Put(context.Background(), "orders", []byte("x"))
		assert.ErrorContains(t, err, "denied")
	})
}
