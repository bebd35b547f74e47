package gcs

import (
	"context"
	"io"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/jobboard-api/pkg/helpers"
)

// ResumeStore uploads applicant resumes under resumes/<userID>/.
type ResumeStore struct {
	Client *storage.Client
	Bucket string
}

func NewResumeStore(client *storage.Client, bucket string) *ResumeStore {
	return &ResumeStore{Client: client, Bucket: bucket}
}

func (s *ResumeStore) Upload(ctx context.Context, userID primitive.ObjectID, filename, contentType string, r io.Reader) (string, error) {
	return helpers.UploadObject(ctx, s.Client, s.Bucket, ObjectPath(userID, filename), contentType, r)
}

// ObjectPath names the object with a random id so re-uploads never overwrite.
func ObjectPath(userID primitive.ObjectID, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	if ext == "" {
		ext = ".pdf"
	}
	return path.Join("resumes", userID.Hex(), uuid.NewString()+ext)
}
