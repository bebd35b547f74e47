package gcs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestObjectPath(t *testing.T) {
	id := primitive.NewObjectID()

	p := ObjectPath(id, "My CV.PDF")
	assert.True(t, strings.HasPrefix(p, "resumes/"+id.Hex()+"/"))
	assert.True(t, strings.HasSuffix(p, ".pdf"))
	assert.NotEqual(t, p, ObjectPath(id, "My CV.PDF"))

	assert.True(t, strings.HasSuffix(ObjectPath(id, "cv"), ".pdf"))
}
