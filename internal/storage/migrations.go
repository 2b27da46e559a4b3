package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ghexplorer/internal/providers"

	json "github.com/goccy/go-json"
)

const MigrationVersionKey = "storage-migration-version"

// Legacy un-namespaced keys written before the prefixed store existed.
const (
	legacySearchHistoryKey = "github-search-history"
	legacyUserWatchlistKey = "github-user-watchlist"
	legacyWatchlistKey     = "github-watchlist"

	SearchHistoryKey = "search-history"
	WatchlistKey     = "user-watchlist"
)

// Migration upgrades stored data to Version. Steps run in ascending order and
// the reached version is persisted after each one.
type Migration struct {
	Version int
	Name    string
	Apply   func(ctx context.Context, s *Store) error
}

func DefaultMigrations() []Migration {
	return []Migration{
		{Version: 1, Name: "import legacy keys", Apply: migrateLegacyKeys},
		{Version: 2, Name: "rewrite metadata envelopes", Apply: migrateMetadataEnvelopes},
	}
}

// TargetVersion is the version RunMigrations brings the store to.
func (s *Store) TargetVersion() int {
	if len(s.migrations) == 0 {
		return 0
	}
	return s.migrations[len(s.migrations)-1].Version
}

// MigrationVersion returns the persisted migration marker.
func (s *Store) MigrationVersion() int {
	return Get(s, MigrationVersionKey, 0)
}

// RunMigrations applies pending steps. It returns false when storage is
// unavailable or a step fails; data migrated by earlier steps is kept.
func (s *Store) RunMigrations(ctx context.Context) bool {
	if !s.IsAvailable() {
		s.logger.Warnf(providers.TypeStorage, "Storage is not available, skipping migrations")
		return false
	}

	current := s.MigrationVersion()
	target := s.TargetVersion()
	if current >= target {
		if current > target {
			s.logger.Warnf(providers.TypeStorage, "Storage migration version %d is ahead of %d", current, target)
		}
		return true
	}

	s.logger.Infof(providers.TypeStorage, "Running storage migrations from version %d to %d", current, target)

	for i, m := range s.migrations {
		if m.Version != i+1 {
			s.logger.Errorf(providers.TypeStorage, "Missing migration function for version %d", i+1)
			return false
		}
		if m.Version <= current {
			continue
		}
		if err := ctx.Err(); err != nil {
			s.logger.Warnf(providers.TypeStorage, "Storage migrations interrupted at version %d: %s", current, err)
			return false
		}
		if err := m.Apply(ctx, s); err != nil {
			s.logger.Errorf(providers.TypeStorage, "Migration to version %d (%s) failed: %s", m.Version, m.Name, err)
			return false
		}
		if !Set(s, MigrationVersionKey, m.Version) {
			s.logger.Errorf(providers.TypeStorage, "Could not record migration version %d", m.Version)
			return false
		}
		current = m.Version
	}

	s.logger.Infof(providers.TypeStorage, "Storage migrations completed successfully to version %d", target)
	return true
}

// readLegacy reads an un-namespaced key. Substrate failures are returned so
// the step halts.
func (s *Store) readLegacy(key string) (string, bool, error) {
	raw, found, err := s.substrate.GetItem(key)
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", key, err)
	}
	return raw, found, nil
}

// dropLegacy deletes legacy keys once their data is written under the
// namespace, so a step that fails before that point can run again.
func (s *Store) dropLegacy(keys ...string) error {
	for _, key := range keys {
		if err := s.substrate.RemoveItem(key); err != nil {
			return fmt.Errorf("remove %s: %w", key, err)
		}
	}
	return nil
}

func migrateLegacyKeys(_ context.Context, s *Store) error {
	if err := migrateLegacyHistory(s); err != nil {
		return err
	}
	return migrateLegacyWatchlist(s)
}

func migrateLegacyHistory(s *Store) error {
	raw, found, err := s.readLegacy(legacySearchHistoryKey)
	if err != nil || !found {
		return err
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.logger.Errorf(providers.TypeStorage, "Error migrating legacy search history: %s", err)
		return s.dropLegacy(legacySearchHistoryKey)
	}

	// The oldest format kept bare query strings.
	now := s.now().UnixMilli()
	out := make([]json.RawMessage, 0, len(items))
	for _, item := range items {
		var query string
		if err := json.Unmarshal(item, &query); err == nil {
			if strings.TrimSpace(query) == "" {
				continue
			}
			converted, err := json.Marshal(map[string]any{"query": query, "timestamp": now})
			if err != nil {
				return err
			}
			out = append(out, converted)
			continue
		}
		out = append(out, item)
	}

	data, err := json.Marshal(out)
	if err != nil {
		return err
	}
	if !s.setRaw(SearchHistoryKey, data, s.now()) {
		return fmt.Errorf("write %s", SearchHistoryKey)
	}
	return s.dropLegacy(legacySearchHistoryKey)
}

func migrateLegacyWatchlist(s *Store) error {
	var users []json.RawMessage
	var present []string

	raw, found, err := s.readLegacy(legacyUserWatchlistKey)
	if err != nil {
		return err
	}
	if found {
		present = append(present, legacyUserWatchlistKey)
		var wrapped struct {
			Users []json.RawMessage `json:"users"`
		}
		if err := json.Unmarshal([]byte(raw), &wrapped); err != nil {
			s.logger.Errorf(providers.TypeStorage, "Error migrating legacy watchlist: %s", err)
		} else {
			users = append(users, wrapped.Users...)
		}
	}

	raw, found, err = s.readLegacy(legacyWatchlistKey)
	if err != nil {
		return err
	}
	if found {
		present = append(present, legacyWatchlistKey)
		var list []json.RawMessage
		if err := json.Unmarshal([]byte(raw), &list); err != nil {
			s.logger.Errorf(providers.TypeStorage, "Error migrating legacy watchlist: %s", err)
		} else {
			users = append(users, list...)
		}
	}

	if users == nil {
		return s.dropLegacy(present...)
	}

	seen := make(map[int64]struct{}, len(users))
	merged := make([]json.RawMessage, 0, len(users))
	for _, u := range users {
		var id struct {
			ID int64 `json:"id"`
		}
		if err := json.Unmarshal(u, &id); err != nil || id.ID == 0 {
			continue
		}
		if _, dup := seen[id.ID]; dup {
			continue
		}
		seen[id.ID] = struct{}{}
		merged = append(merged, u)
	}

	data, err := json.Marshal(merged)
	if err != nil {
		return err
	}
	if !s.setRaw(WatchlistKey, data, s.now()) {
		return fmt.Errorf("write %s", WatchlistKey)
	}
	return s.dropLegacy(present...)
}

// migrateMetadataEnvelopes rewrites namespaced entries still held in the
// {data, metadata} envelope. Only metadata version 1 carried a usable shape.
func migrateMetadataEnvelopes(_ context.Context, s *Store) error {
	keys, err := s.substrate.Keys()
	if err != nil {
		return fmt.Errorf("list keys: %w", err)
	}

	ns := s.prefix + ":"
	for _, full := range keys {
		if !strings.HasPrefix(full, ns) {
			continue
		}
		raw, found, err := s.substrate.GetItem(full)
		if err != nil {
			return fmt.Errorf("read %s: %w", full, err)
		}
		if !found {
			continue
		}
		legacy, ok := Decode(raw).(LegacyV0)
		if !ok {
			continue
		}

		key := strings.TrimPrefix(full, ns)
		if legacy.Version != 1 {
			s.Remove(key)
			continue
		}
		writtenAt, err := time.Parse(time.RFC3339Nano, legacy.UpdatedAt)
		if err != nil {
			writtenAt = s.now()
		}
		if !s.setRaw(key, legacy.Data, writtenAt) {
			return fmt.Errorf("rewrite %s", key)
		}
	}
	return nil
}
