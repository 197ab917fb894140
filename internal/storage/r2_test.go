package storage

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakePutter struct {
	key, contentType, body string
	err                    error
}

func (f *fakePutter) PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.key = *in.Key
	if in.ContentType != nil {
		f.contentType = *in.ContentType
	}
	data, _ := io.ReadAll(in.Body)
	f.body = string(data)
	return &s3.PutObjectOutput{}, nil
}

func TestPutJSON(t *testing.T) {
	fake := &fakePutter{}
	r := &R2Client{client: fake, bucket: "receipts", baseURL: "https://cdn.example.com"}

	url, err := r.PutJSON(context.Background(), "receipts/2024/05/01/r1.json", map[string]int{"total": 3329})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "https://cdn.example.com/receipts/2024/05/01/r1.json" {
		t.Fatalf("unexpected url %s", url)
	}
	if fake.contentType != "application/json" || fake.body != `{"total":3329}` {
		t.Fatalf("unexpected object %+v", fake)
	}
}

func TestPutWrapsError(t *testing.T) {
	fake := &fakePutter{err: errors.New("access denied")}
	r := &R2Client{client: fake, bucket: "receipts"}

	if _, err := r.PutJSON(context.Background(), "k", 1); err == nil {
		t.Fatalf("expected error")
	}
}
