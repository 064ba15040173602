package s3store

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"financas/internal/core"
	"financas/internal/ledger"
	"financas/internal/sheets/xlsx"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjects struct {
	objects     map[string][]byte
	contentType string
	getErr      error
}

func (f *fakeObjects) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	data, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("The specified key does not exist.")}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeObjects) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	if f.objects == nil {
		f.objects = map[string][]byte{}
	}
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = data
	f.contentType = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func TestStoreMissingObjectIsEmpty(t *testing.T) {
	s := newStore(&fakeObjects{}, "ledger", "financas.xlsx")
	rows, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	fake := &fakeObjects{}
	s := newStore(fake, "ledger", "financas.xlsx")

	want := core.Ledger{
		{Date: core.NewDate(2024, 1, 10), Type: core.Income, Category: core.Salary, Amount: core.Money{Cents: 100000}},
		{Date: core.NewDate(2024, 1, 15), Type: core.Expense, Category: core.CreditCard, Amount: core.Money{Cents: 30000}, Description: "mercado"},
	}
	require.NoError(t, s.Save(ctx, ledger.Rows(want)))
	assert.Equal(t, xlsx.ContentType, fake.contentType)
	assert.Contains(t, fake.objects, "ledger/financas.xlsx")

	rows, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, ledger.Normalize(rows))
}

func TestStoreLoadError(t *testing.T) {
	s := newStore(&fakeObjects{getErr: errors.New("access denied")}, "ledger", "financas.xlsx")
	_, err := s.Load(context.Background())
	assert.ErrorContains(t, err, "get s3://ledger/financas.xlsx")
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, isNotFound(&types.NoSuchKey{}))
	assert.True(t, isNotFound(&types.NotFound{}))
	assert.False(t, isNotFound(errors.New("boom")))
}

func TestNewRequiresBucket(t *testing.T) {
	_, err := New(context.Background(), Config{Key: "financas.xlsx"})
	assert.EqualError(t, err, "missing S3_BUCKET")
}
