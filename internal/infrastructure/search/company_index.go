package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/jobboard-api/internal/domain/entity"
)

const requestTimeout = 3 * time.Second

// CompanyIndex keeps a companies document per company for name search.
type CompanyIndex struct {
	ES        *elasticsearch.Client
	IndexName string
}

func NewCompanyIndex(es *elasticsearch.Client, index string) *CompanyIndex {
	return &CompanyIndex{ES: es, IndexName: index}
}

type companyDoc struct {
	ID                string `json:"id"`
	CompanyName       string `json:"companyName"`
	Industry          string `json:"industry"`
	Address           string `json:"address"`
	NumberOfEmployees string `json:"numberOfEmployees"`
	UpdatedAt         string `json:"updatedAt"`
}

func (ci *CompanyIndex) Index(ctx context.Context, c *entity.Company) error {
	b, err := json.Marshal(companyDoc{
		ID:                c.ID.Hex(),
		CompanyName:       c.CompanyName,
		Industry:          c.Industry,
		Address:           c.Address,
		NumberOfEmployees: c.NumberOfEmployees,
		UpdatedAt:         c.UpdatedAt.Format(time.RFC3339Nano),
	})
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: ci.IndexName, DocumentID: c.ID.Hex(), Body: bytes.NewReader(b), Refresh: "false"}
	rctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(rctx, ci.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("index company: %s", res.Status())
	}
	return nil
}

// Delete removes the company document; an absent document is not an error.
func (ci *CompanyIndex) Delete(ctx context.Context, id primitive.ObjectID) error {
	req := esapi.DeleteRequest{Index: ci.IndexName, DocumentID: id.Hex()}
	rctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(rctx, ci.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("delete company document: %s", res.Status())
	}
	return nil
}

// Search runs a match query on companyName and returns the matching ids by score.
func (ci *CompanyIndex) Search(ctx context.Context, name string, size int) ([]primitive.ObjectID, error) {
	if size <= 0 || size > 50 {
		size = 10
	}
	body, err := json.Marshal(searchBody(name, size))
	if err != nil {
		return nil, err
	}

	rctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := ci.ES.Search(
		ci.ES.Search.WithContext(rctx),
		ci.ES.Search.WithIndex(ci.IndexName),
		ci.ES.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("search companies: %s", res.Status())
	}

	return decodeHitIDs(res.Body)
}

func searchBody(name string, size int) map[string]any {
	return map[string]any{
		"query": map[string]any{
			"match": map[string]any{
				"companyName": map[string]any{
					"query":     name,
					"fuzziness": "AUTO",
				},
			},
		},
		"size": size,
	}
}

// decodeHitIDs reads a search response and keeps hits whose _id is an ObjectID.
func decodeHitIDs(r io.Reader) ([]primitive.ObjectID, error) {
	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(r).Decode(&parsed); err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		id, err := primitive.ObjectIDFromHex(h.ID)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}
