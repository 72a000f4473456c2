package service

import (
	"sort"

	"github.com/bnema/walcache/internal/domain/entity"
)

// DuplicateGroup is a set of entries sharing an image hash.
type DuplicateGroup struct {
	ImageHash string
	Keep      *entity.CacheEntry
	Remove    []*entity.CacheEntry
}

// PlanDeduplication groups entries by non-empty image hash and, for each
// group with more than one member, keeps the most recently accessed entry.
// Ties on last access keep the smallest key. Groups are returned sorted by
// image hash.
func PlanDeduplication(entries []*entity.CacheEntry) []DuplicateGroup {
	byHash := make(map[string][]*entity.CacheEntry)
	for _, e := range entries {
		if e.ImageHash == "" {
			continue
		}
		byHash[e.ImageHash] = append(byHash[e.ImageHash], e)
	}

	groups := make([]DuplicateGroup, 0)
	for hash, members := range byHash {
		if len(members) < 2 {
			continue
		}
		sort.Slice(members, func(i, j int) bool {
			a, b := members[i], members[j]
			if !a.LastAccessedAt.Equal(b.LastAccessedAt) {
				return a.LastAccessedAt.After(b.LastAccessedAt)
			}
			return a.Key < b.Key
		})
		groups = append(groups, DuplicateGroup{
			ImageHash: hash,
			Keep:      members[0],
			Remove:    members[1:],
		})
	}

	sort.Slice(groups, func(i, j int) bool {
		return groups[i].ImageHash < groups[j].ImageHash
	})
	return groups
}
