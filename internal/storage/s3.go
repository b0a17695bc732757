// Package storage persists uploaded resumes to S3. The server-side
// proxy upload is the single authoritative upload path.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// S3API is the subset of the S3 client the store needs.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ResumeStore writes resume files under a per-conversation prefix.
type ResumeStore struct {
	client S3API
	bucket string
	prefix string
}

func NewResumeStore(client S3API, bucket, prefix string) *ResumeStore {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &ResumeStore{client: client, bucket: bucket, prefix: prefix}
}

// Put streams one file to S3 and returns its object key.
func (s *ResumeStore) Put(ctx context.Context, conversationID, fileName, contentType string, body io.Reader) (string, error) {
	if s.client == nil || s.bucket == "" {
		return "", fmt.Errorf("resume storage not configured")
	}

	key := s.objectKey(conversationID, fileName)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put resume %s: %w", key, err)
	}
	return key, nil
}

// objectKey shapes keys as <prefix><conversationId>/<unix>_<id>_<name>.
// The random component keeps same-named re-uploads from clobbering each
// other within a conversation.
func (s *ResumeStore) objectKey(conversationID, fileName string) string {
	conv := sanitize(conversationID)
	if conv == "" {
		conv = "session_" + uuid.NewString()
	}
	name := sanitize(path.Base(fileName))
	if name == "" {
		name = "resume"
	}
	id := strings.Split(uuid.NewString(), "-")[0]
	return fmt.Sprintf("%s%s/%d_%s_%s", s.prefix, conv, time.Now().Unix(), id, name)
}

// sanitize keeps object keys to a conservative character set.
func sanitize(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_' || r == '.':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('_')
		}
	}
	return strings.Trim(b.String(), "._")
}
