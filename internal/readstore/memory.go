package readstore

import (
	"context"
	"sync"

	"github.com/nivenhub/timelinecore/internal/shared/types"
)

type edgeKey struct {
	follower types.UserId
	followee types.UserId
}

// MemoryStore is the in-memory Store implementation the core is defined
// against; durability is a substitution (see the postgres subpackage).
//
// A single coarse mutex guards every map: spec §5 permits either a coarse
// projector lock or composed per-entity locks as the projection
// linearization point, and the read-store side of a single projection
// step is small enough that a coarse lock never becomes a bottleneck.
type MemoryStore struct {
	tunables Tunables

	mu sync.RWMutex

	profiles       map[types.UserId]UserProfile
	profilesByName map[types.Username]types.UserId

	posts          map[types.PostId]Post
	postsByAuthor  map[types.UserId][]types.PostId // newest first

	outgoing map[types.UserId]map[types.UserId]struct{}
	incoming map[types.UserId]map[types.UserId]struct{}
	edges    map[edgeKey]types.RelationshipId

	timelines map[types.UserId][]types.PostId // newest first

	celebrityPosts map[types.PostId]types.UserId
}

// NewMemoryStore creates an empty in-memory read store.
func NewMemoryStore(tunables Tunables) *MemoryStore {
	return &MemoryStore{
		tunables:       tunables,
		profiles:       make(map[types.UserId]UserProfile),
		profilesByName: make(map[types.Username]types.UserId),
		posts:          make(map[types.PostId]Post),
		postsByAuthor:  make(map[types.UserId][]types.PostId),
		outgoing:       make(map[types.UserId]map[types.UserId]struct{}),
		incoming:       make(map[types.UserId]map[types.UserId]struct{}),
		edges:          make(map[edgeKey]types.RelationshipId),
		timelines:      make(map[types.UserId][]types.PostId),
		celebrityPosts: make(map[types.PostId]types.UserId),
	}
}

func (s *MemoryStore) SaveProfile(ctx context.Context, profile UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.UserId] = profile
	s.profilesByName[profile.Username] = profile.UserId
	return nil
}

func (s *MemoryStore) GetProfile(ctx context.Context, userId types.UserId) (UserProfile, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[userId]
	return p, ok, nil
}

func (s *MemoryStore) FindProfileByUsername(ctx context.Context, username types.Username) (UserProfile, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.profilesByName[username]
	if !ok {
		return UserProfile{}, false, nil
	}
	p, ok := s.profiles[id]
	return p, ok, nil
}

func (s *MemoryStore) ListProfiles(ctx context.Context) ([]UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]UserProfile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, p)
	}
	return out, nil
}

func (s *MemoryStore) SavePost(ctx context.Context, post Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts[post.PostId] = post
	s.postsByAuthor[post.AuthorId] = prependPostId(s.postsByAuthor[post.AuthorId], post.PostId)
	return nil
}

func (s *MemoryStore) GetPost(ctx context.Context, postId types.PostId) (Post, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.posts[postId]
	return p, ok, nil
}

func (s *MemoryStore) DeletePost(ctx context.Context, postId types.PostId) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	post, ok := s.posts[postId]
	if !ok {
		return nil
	}
	delete(s.posts, postId)
	s.postsByAuthor[post.AuthorId] = removePostId(s.postsByAuthor[post.AuthorId], postId)
	return nil
}

func (s *MemoryStore) ListPostsByAuthor(ctx context.Context, authorId types.UserId) ([]Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.postsByAuthor[authorId]
	out := make([]Post, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.posts[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *MemoryStore) AddEdge(ctx context.Context, follower, followee types.UserId, relationshipId types.RelationshipId) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.outgoing[follower] == nil {
		s.outgoing[follower] = make(map[types.UserId]struct{})
	}
	s.outgoing[follower][followee] = struct{}{}
	if s.incoming[followee] == nil {
		s.incoming[followee] = make(map[types.UserId]struct{})
	}
	s.incoming[followee][follower] = struct{}{}
	s.edges[edgeKey{follower, followee}] = relationshipId
	return nil
}

func (s *MemoryStore) RemoveEdge(ctx context.Context, follower, followee types.UserId) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.outgoing[follower], followee)
	delete(s.incoming[followee], follower)
	delete(s.edges, edgeKey{follower, followee})
	return nil
}

func (s *MemoryStore) Outgoing(ctx context.Context, userId types.UserId) ([]types.UserId, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.UserId, 0, len(s.outgoing[userId]))
	for id := range s.outgoing[userId] {
		out = append(out, id)
	}
	return out, nil
}

func (s *MemoryStore) Incoming(ctx context.Context, userId types.UserId) ([]types.UserId, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.UserId, 0, len(s.incoming[userId]))
	for id := range s.incoming[userId] {
		out = append(out, id)
	}
	return out, nil
}

func (s *MemoryStore) IsFollowing(ctx context.Context, follower, followee types.UserId) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.edges[edgeKey{follower, followee}]
	return ok, nil
}

func (s *MemoryStore) RelationshipOf(ctx context.Context, follower, followee types.UserId) (types.RelationshipId, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.edges[edgeKey{follower, followee}]
	return id, ok, nil
}

func (s *MemoryStore) PushTimeline(ctx context.Context, ownerId types.UserId, postId types.PostId) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tl := prependPostId(s.timelines[ownerId], postId)
	if len(tl) > s.tunables.MaxTimeline {
		tl = tl[:s.tunables.MaxTimeline]
	}
	s.timelines[ownerId] = tl
	return nil
}

func (s *MemoryStore) RemoveFromTimeline(ctx context.Context, ownerId types.UserId, postId types.PostId) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timelines[ownerId] = removePostId(s.timelines[ownerId], postId)
	return nil
}

func (s *MemoryStore) RemoveAuthorFromTimeline(ctx context.Context, ownerId types.UserId, authorId types.UserId) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tl := s.timelines[ownerId]
	filtered := tl[:0:0]
	for _, id := range tl {
		if post, ok := s.posts[id]; ok && post.AuthorId == authorId {
			continue
		}
		filtered = append(filtered, id)
	}
	s.timelines[ownerId] = filtered
	return nil
}

func (s *MemoryStore) GetTimeline(ctx context.Context, ownerId types.UserId) ([]types.PostId, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tl := s.timelines[ownerId]
	out := make([]types.PostId, len(tl))
	copy(out, tl)
	return out, nil
}

func (s *MemoryStore) MarkCelebrityPost(ctx context.Context, postId types.PostId, authorId types.UserId) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.celebrityPosts[postId] = authorId
	return nil
}

func (s *MemoryStore) ForgetCelebrityPost(ctx context.Context, postId types.PostId) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.celebrityPosts, postId)
	return nil
}

func (s *MemoryStore) CelebrityPostsOf(ctx context.Context, authorIds []types.UserId) ([]types.PostId, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	authors := make(map[types.UserId]struct{}, len(authorIds))
	for _, id := range authorIds {
		authors[id] = struct{}{}
	}
	var out []types.PostId
	for postId, authorId := range s.celebrityPosts {
		if _, ok := authors[authorId]; ok {
			out = append(out, postId)
		}
	}
	return out, nil
}

func (s *MemoryStore) IsCelebrity(ctx context.Context, userId types.UserId) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.incoming[userId]) >= s.tunables.CelebrityThreshold, nil
}

func prependPostId(slice []types.PostId, id types.PostId) []types.PostId {
	out := make([]types.PostId, 0, len(slice)+1)
	out = append(out, id)
	out = append(out, slice...)
	return out
}

func removePostId(slice []types.PostId, id types.PostId) []types.PostId {
	out := slice[:0:0]
	for _, existing := range slice {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}

var _ Store = (*MemoryStore)(nil)
