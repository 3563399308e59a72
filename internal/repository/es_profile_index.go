package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/weiawesome/social-search/internal/domain"
	"github.com/weiawesome/social-search/pkg/log"
)

// ESProfileIndex serves profile queries from the CDC-fed profiles index.
type ESProfileIndex struct {
	client *elasticsearch.Client
	index  string
}

// NewESProfileIndex creates a new Elasticsearch-backed profile searcher.
func NewESProfileIndex(client *elasticsearch.Client, index string) *ESProfileIndex {
	return &ESProfileIndex{
		client: client,
		index:  index,
	}
}

var wildcardEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`)

// containsAny builds a case-insensitive contains query over fields.
func containsAny(term string, fields ...string) map[string]interface{} {
	value := "*" + wildcardEscaper.Replace(term) + "*"
	should := make([]interface{}, len(fields))
	for i, f := range fields {
		should[i] = map[string]interface{}{
			"wildcard": map[string]interface{}{
				f: map[string]interface{}{
					"value":            value,
					"case_insensitive": true,
				},
			},
		}
	}
	return map[string]interface{}{
		"bool": map[string]interface{}{
			"should":               should,
			"minimum_should_match": 1,
		},
	}
}

// MatchingProfileIDs returns ids of profiles whose username or display name matches.
func (r *ESProfileIndex) MatchingProfileIDs(ctx context.Context, m Match, limit int) ([]string, error) {
	profiles, err := r.search(ctx, map[string]interface{}{
		"size":    limit,
		"query":   containsAny(m.Term, "username", "display_name"),
		"sort":    []interface{}{map[string]interface{}{"followers_count": "desc"}},
		"_source": []string{"id"},
	})
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(profiles))
	for _, p := range profiles {
		ids = append(ids, p.ID)
	}
	return ids, nil
}

// SearchProfiles matches username, display name or bio.
func (r *ESProfileIndex) SearchProfiles(ctx context.Context, m Match, limit int) ([]domain.ProfileModel, error) {
	return r.search(ctx, map[string]interface{}{
		"size":  limit,
		"query": containsAny(m.Term, "username", "display_name", "bio"),
		"sort":  []interface{}{map[string]interface{}{"followers_count": "desc"}},
	})
}

// SearchLiveProfiles matches profiles that are live.
func (r *ESProfileIndex) SearchLiveProfiles(ctx context.Context, m Match, limit int) ([]domain.ProfileModel, error) {
	return r.search(ctx, map[string]interface{}{
		"size": limit,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": []interface{}{
					map[string]interface{}{"term": map[string]interface{}{"is_live": true}},
				},
				"must": []interface{}{containsAny(m.Term, "username", "display_name")},
			},
		},
		"sort": []interface{}{map[string]interface{}{"username": "asc"}},
	})
}

func (r *ESProfileIndex) search(ctx context.Context, body map[string]interface{}) ([]domain.ProfileModel, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %w", err)
	}

	res, err := r.client.Search(
		r.client.Search.WithContext(ctx),
		r.client.Search.WithIndex(r.index),
		r.client.Search.WithBody(bytes.NewReader(data)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search profiles: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch error: %s", res.String())
	}

	var result esResponse
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	profiles := make([]domain.ProfileModel, 0, len(result.Hits.Hits))
	for _, hit := range result.Hits.Hits {
		var doc esProfile
		if err := json.Unmarshal(hit.Source, &doc); err != nil {
			l := log.Ctx(ctx)
			l.Warn().Err(err).Str("index", r.index).Str("doc_id", hit.ID).Msg("skipping undecodable profile document")
			continue
		}
		profiles = append(profiles, doc.toModel())
	}

	return profiles, nil
}

// esProfile is a profiles row as replicated by CDC (snake_case columns).
type esProfile struct {
	ID              string    `json:"id"`
	Username        string    `json:"username"`
	DisplayName     *string   `json:"display_name"`
	AvatarURL       *string   `json:"avatar_url"`
	AvatarColor     *string   `json:"avatar_color"`
	Bio             *string   `json:"bio"`
	FollowersCount  int       `json:"followers_count"`
	IsLive          bool      `json:"is_live"`
	LiveTitle       *string   `json:"live_title"`
	LiveViewerCount int       `json:"live_viewer_count"`
	CreatedAt       time.Time `json:"created_at"`
}

func (d esProfile) toModel() domain.ProfileModel {
	return domain.ProfileModel{
		ID:              d.ID,
		Username:        d.Username,
		DisplayName:     d.DisplayName,
		AvatarURL:       d.AvatarURL,
		AvatarColor:     d.AvatarColor,
		Bio:             d.Bio,
		FollowersCount:  d.FollowersCount,
		IsLive:          d.IsLive,
		LiveTitle:       d.LiveTitle,
		LiveViewerCount: d.LiveViewerCount,
		CreatedAt:       d.CreatedAt,
	}
}

// esResponse is the generic Elasticsearch search response structure.
type esResponse struct {
	Hits struct {
		Hits []struct {
			ID     string          `json:"_id"`
			Source json.RawMessage `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

var _ ProfileSearcher = (*ESProfileIndex)(nil)
