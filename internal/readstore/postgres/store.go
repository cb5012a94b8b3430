// Package postgres is the durable substitution for readstore.Store,
// backed by Postgres via pgx. It implements the exact same contract as
// readstore.MemoryStore; callers can swap one for the other without any
// change to the command or query handlers built over readstore.Store.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nivenhub/timelinecore/internal/readstore"
	"github.com/nivenhub/timelinecore/internal/shared/metrics"
	"github.com/nivenhub/timelinecore/internal/shared/types"
)

// Store is the Postgres-backed readstore.Store implementation.
type Store struct {
	pool     *pgxpool.Pool
	tunables readstore.Tunables
}

// New wraps an already-connected pool. Run Migrate before using Store.
func New(pool *pgxpool.Pool, tunables readstore.Tunables) *Store {
	return &Store{pool: pool, tunables: tunables}
}

func (s *Store) timeQuery(operation string, fn func() error) error {
	start := time.Now()
	err := fn()
	metrics.RecordDBQuery(operation, time.Since(start))
	return err
}

func (s *Store) SaveProfile(ctx context.Context, profile readstore.UserProfile) error {
	return s.timeQuery("SaveProfile", func() error {
		_, err := s.pool.Exec(ctx, `
			INSERT INTO user_profiles (user_id, username) VALUES ($1, $2)
			ON CONFLICT (user_id) DO UPDATE SET username = EXCLUDED.username
		`, profile.UserId, profile.Username)
		return err
	})
}

func (s *Store) GetProfile(ctx context.Context, userId types.UserId) (readstore.UserProfile, bool, error) {
	var profile readstore.UserProfile
	err := s.timeQuery("GetProfile", func() error {
		return s.pool.QueryRow(ctx, `
			SELECT user_id, username FROM user_profiles WHERE user_id = $1
		`, userId).Scan(&profile.UserId, &profile.Username)
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return readstore.UserProfile{}, false, nil
	}
	if err != nil {
		return readstore.UserProfile{}, false, err
	}
	return profile, true, nil
}

func (s *Store) FindProfileByUsername(ctx context.Context, username types.Username) (readstore.UserProfile, bool, error) {
	var profile readstore.UserProfile
	err := s.timeQuery("FindProfileByUsername", func() error {
		return s.pool.QueryRow(ctx, `
			SELECT user_id, username FROM user_profiles WHERE username = $1
		`, username).Scan(&profile.UserId, &profile.Username)
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return readstore.UserProfile{}, false, nil
	}
	if err != nil {
		return readstore.UserProfile{}, false, err
	}
	return profile, true, nil
}

func (s *Store) ListProfiles(ctx context.Context) ([]readstore.UserProfile, error) {
	var profiles []readstore.UserProfile
	err := s.timeQuery("ListProfiles", func() error {
		rows, err := s.pool.Query(ctx, `SELECT user_id, username FROM user_profiles`)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var p readstore.UserProfile
			if err := rows.Scan(&p.UserId, &p.Username); err != nil {
				return err
			}
			profiles = append(profiles, p)
		}
		return rows.Err()
	})
	return profiles, err
}

func (s *Store) SavePost(ctx context.Context, post readstore.Post) error {
	return s.timeQuery("SavePost", func() error {
		_, err := s.pool.Exec(ctx, `
			INSERT INTO posts (post_id, author_id, author_username, body, published_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (post_id) DO NOTHING
		`, post.PostId, post.AuthorId, post.AuthorUsername, post.Body, post.PublishedAt)
		return err
	})
}

func (s *Store) GetPost(ctx context.Context, postId types.PostId) (readstore.Post, bool, error) {
	var p readstore.Post
	err := s.timeQuery("GetPost", func() error {
		return s.pool.QueryRow(ctx, `
			SELECT post_id, author_id, author_username, body, published_at
			FROM posts WHERE post_id = $1
		`, postId).Scan(&p.PostId, &p.AuthorId, &p.AuthorUsername, &p.Body, &p.PublishedAt)
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return readstore.Post{}, false, nil
	}
	if err != nil {
		return readstore.Post{}, false, err
	}
	return p, true, nil
}

func (s *Store) DeletePost(ctx context.Context, postId types.PostId) error {
	return s.timeQuery("DeletePost", func() error {
		_, err := s.pool.Exec(ctx, `DELETE FROM posts WHERE post_id = $1`, postId)
		return err
	})
}

func (s *Store) ListPostsByAuthor(ctx context.Context, authorId types.UserId) ([]readstore.Post, error) {
	var posts []readstore.Post
	err := s.timeQuery("ListPostsByAuthor", func() error {
		rows, err := s.pool.Query(ctx, `
			SELECT post_id, author_id, author_username, body, published_at
			FROM posts WHERE author_id = $1 ORDER BY published_at DESC
		`, authorId)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var p readstore.Post
			if err := rows.Scan(&p.PostId, &p.AuthorId, &p.AuthorUsername, &p.Body, &p.PublishedAt); err != nil {
				return err
			}
			posts = append(posts, p)
		}
		return rows.Err()
	})
	return posts, err
}

func (s *Store) AddEdge(ctx context.Context, follower, followee types.UserId, relationshipId types.RelationshipId) error {
	return s.timeQuery("AddEdge", func() error {
		_, err := s.pool.Exec(ctx, `
			INSERT INTO follow_edges (follower_id, followee_id, relationship_id)
			VALUES ($1, $2, $3)
			ON CONFLICT (follower_id, followee_id) DO UPDATE SET relationship_id = EXCLUDED.relationship_id
		`, follower, followee, relationshipId)
		return err
	})
}

func (s *Store) RemoveEdge(ctx context.Context, follower, followee types.UserId) error {
	return s.timeQuery("RemoveEdge", func() error {
		_, err := s.pool.Exec(ctx, `
			DELETE FROM follow_edges WHERE follower_id = $1 AND followee_id = $2
		`, follower, followee)
		return err
	})
}

func (s *Store) Outgoing(ctx context.Context, userId types.UserId) ([]types.UserId, error) {
	var ids []types.UserId
	err := s.timeQuery("Outgoing", func() error {
		rows, err := s.pool.Query(ctx, `SELECT followee_id FROM follow_edges WHERE follower_id = $1`, userId)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var id types.UserId
			if err := rows.Scan(&id); err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return rows.Err()
	})
	return ids, err
}

func (s *Store) Incoming(ctx context.Context, userId types.UserId) ([]types.UserId, error) {
	var ids []types.UserId
	err := s.timeQuery("Incoming", func() error {
		rows, err := s.pool.Query(ctx, `SELECT follower_id FROM follow_edges WHERE followee_id = $1`, userId)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var id types.UserId
			if err := rows.Scan(&id); err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return rows.Err()
	})
	return ids, err
}

func (s *Store) IsFollowing(ctx context.Context, follower, followee types.UserId) (bool, error) {
	var exists bool
	err := s.timeQuery("IsFollowing", func() error {
		return s.pool.QueryRow(ctx, `
			SELECT EXISTS(SELECT 1 FROM follow_edges WHERE follower_id = $1 AND followee_id = $2)
		`, follower, followee).Scan(&exists)
	})
	return exists, err
}

func (s *Store) RelationshipOf(ctx context.Context, follower, followee types.UserId) (types.RelationshipId, bool, error) {
	var id types.RelationshipId
	err := s.timeQuery("RelationshipOf", func() error {
		return s.pool.QueryRow(ctx, `
			SELECT relationship_id FROM follow_edges WHERE follower_id = $1 AND followee_id = $2
		`, follower, followee).Scan(&id)
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return id, true, nil
}

func (s *Store) PushTimeline(ctx context.Context, ownerId types.UserId, postId types.PostId) error {
	return s.timeQuery("PushTimeline", func() error {
		_, err := s.pool.Exec(ctx, `
			INSERT INTO timeline_entries (owner_id, post_id, published_at)
			SELECT $1, $2, published_at FROM posts WHERE post_id = $2
			ON CONFLICT (owner_id, post_id) DO NOTHING
		`, ownerId, postId)
		if err != nil {
			return err
		}
		_, err = s.pool.Exec(ctx, `
			DELETE FROM timeline_entries
			WHERE owner_id = $1 AND post_id NOT IN (
				SELECT post_id FROM timeline_entries
				WHERE owner_id = $1
				ORDER BY published_at DESC
				LIMIT $2
			)
		`, ownerId, s.tunables.MaxTimeline)
		return err
	})
}

func (s *Store) RemoveFromTimeline(ctx context.Context, ownerId types.UserId, postId types.PostId) error {
	return s.timeQuery("RemoveFromTimeline", func() error {
		_, err := s.pool.Exec(ctx, `
			DELETE FROM timeline_entries WHERE owner_id = $1 AND post_id = $2
		`, ownerId, postId)
		return err
	})
}

func (s *Store) RemoveAuthorFromTimeline(ctx context.Context, ownerId types.UserId, authorId types.UserId) error {
	return s.timeQuery("RemoveAuthorFromTimeline", func() error {
		_, err := s.pool.Exec(ctx, `
			DELETE FROM timeline_entries
			WHERE owner_id = $1 AND post_id IN (SELECT post_id FROM posts WHERE author_id = $2)
		`, ownerId, authorId)
		return err
	})
}

func (s *Store) GetTimeline(ctx context.Context, ownerId types.UserId) ([]types.PostId, error) {
	var ids []types.PostId
	err := s.timeQuery("GetTimeline", func() error {
		rows, err := s.pool.Query(ctx, `
			SELECT post_id FROM timeline_entries WHERE owner_id = $1 ORDER BY published_at DESC
		`, ownerId)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var id types.PostId
			if err := rows.Scan(&id); err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return rows.Err()
	})
	return ids, err
}

func (s *Store) MarkCelebrityPost(ctx context.Context, postId types.PostId, authorId types.UserId) error {
	return s.timeQuery("MarkCelebrityPost", func() error {
		_, err := s.pool.Exec(ctx, `
			INSERT INTO celebrity_posts (post_id, author_id) VALUES ($1, $2)
			ON CONFLICT (post_id) DO NOTHING
		`, postId, authorId)
		return err
	})
}

func (s *Store) ForgetCelebrityPost(ctx context.Context, postId types.PostId) error {
	return s.timeQuery("ForgetCelebrityPost", func() error {
		_, err := s.pool.Exec(ctx, `DELETE FROM celebrity_posts WHERE post_id = $1`, postId)
		return err
	})
}

func (s *Store) CelebrityPostsOf(ctx context.Context, authorIds []types.UserId) ([]types.PostId, error) {
	var ids []types.PostId
	err := s.timeQuery("CelebrityPostsOf", func() error {
		rows, err := s.pool.Query(ctx, `
			SELECT post_id FROM celebrity_posts WHERE author_id = ANY($1)
		`, authorIds)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var id types.PostId
			if err := rows.Scan(&id); err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return rows.Err()
	})
	return ids, err
}

func (s *Store) IsCelebrity(ctx context.Context, userId types.UserId) (bool, error) {
	var count int
	err := s.timeQuery("IsCelebrity", func() error {
		return s.pool.QueryRow(ctx, `
			SELECT COUNT(*) FROM follow_edges WHERE followee_id = $1
		`, userId).Scan(&count)
	})
	if err != nil {
		return false, err
	}
	return count >= s.tunables.CelebrityThreshold, nil
}

var _ readstore.Store = (*Store)(nil)
