package store

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"sync"

	"okane/internal/core"
	"okane/internal/storage"
)

// Categories owns the category catalog together with the hidden set and the
// display order. Only custom categories are persisted; built-ins come from
// core.BuiltinCategories on every load.
type Categories struct {
	adapter storage.Adapter
	newID   func() string
	commit  func(Change)

	mu     sync.Mutex
	all    []core.Category
	hidden []string
	order  []string
}

// CategoryPatch carries the fields of an update; nil means unchanged.
type CategoryPatch struct {
	Name  *string
	Emoji *string
}

func (c *Categories) load(ctx context.Context) {
	var persisted []core.Category
	if !storage.LoadJSON(ctx, c.adapter, storage.KeyCategories, &persisted) {
		persisted = nil
	}
	var hidden, order []string
	if !storage.LoadJSON(ctx, c.adapter, storage.KeyHiddenCategories, &hidden) {
		hidden = nil
	}
	if !storage.LoadJSON(ctx, c.adapter, storage.KeyCategoryOrder, &order) {
		order = nil
	}

	all := core.BuiltinCategories()
	pos := make(map[string]int, len(all)+len(persisted))
	for i, cat := range all {
		pos[cat.ID] = i
	}
	for _, cat := range persisted {
		if cat.ID == "" {
			continue
		}
		// Everything under this key was written as custom, including edited built-ins.
		cat.IsCustom = true
		if i, ok := pos[cat.ID]; ok {
			all[i] = cat
			continue
		}
		pos[cat.ID] = len(all)
		all = append(all, cat)
	}

	c.mu.Lock()
	c.all = all
	c.hidden = dedupe(hidden)
	c.order = order
	c.mu.Unlock()
}

// List returns the visible categories in display order.
func (c *Categories) List() []core.Category {
	c.mu.Lock()
	defer c.mu.Unlock()
	hidden := toSet(c.hidden)
	visible := make([]core.Category, 0, len(c.all))
	for _, cat := range c.all {
		if _, ok := hidden[cat.ID]; !ok {
			visible = append(visible, cat)
		}
	}
	return sortByOrder(visible, c.order)
}

// ListAll returns every category, hidden ones included, in display order.
// It is the catalog used to resolve historical expenses.
func (c *Categories) ListAll() []core.Category {
	c.mu.Lock()
	defer c.mu.Unlock()
	return sortByOrder(slices.Clone(c.all), c.order)
}

// Hidden returns the ids excluded from pickers.
func (c *Categories) Hidden() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.hidden)
}

// Order returns the persisted display order.
func (c *Categories) Order() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.order)
}

func (c *Categories) IsHidden(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Contains(c.hidden, id)
}

func (c *Categories) Get(id string) (core.Category, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexOf(id)
	if i < 0 {
		return core.Category{}, false
	}
	return c.all[i], true
}

// Resolve returns the category for id, or a neutral placeholder when the id
// is unknown so that historical expenses always render.
func (c *Categories) Resolve(id string) core.Category {
	if cat, ok := c.Get(id); ok {
		return cat
	}
	return core.Category{ID: id, Name: core.UncategorizedName, Emoji: core.FallbackEmoji}
}

// Add creates a custom category. The emoji is reduced to its first emoji
// grapheme cluster.
func (c *Categories) Add(ctx context.Context, name, emoji string) (core.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.Category{}, ErrEmptyName
	}
	glyph := core.ExtractEmoji(emoji)
	if glyph == "" {
		return core.Category{}, ErrEmptyEmoji
	}

	c.mu.Lock()
	cat := core.Category{ID: c.newID(), Name: name, Emoji: glyph, IsCustom: true}
	next := append(slices.Clone(c.all), cat)
	if err := c.persist(ctx, next); err != nil {
		c.mu.Unlock()
		return core.Category{}, err
	}
	c.all = next
	c.mu.Unlock()

	slog.InfoContext(ctx, "Category added", "id", cat.ID, "name", cat.Name)
	c.commit(Change{Kind: ChangeAdded, Collection: CollectionCategories, ID: cat.ID})
	return cat, nil
}

// Update renames or re-icons any category. The target is marked custom so
// that an edited built-in is persisted as an override.
func (c *Categories) Update(ctx context.Context, id string, patch CategoryPatch) error {
	c.mu.Lock()
	i := c.indexOf(id)
	if i < 0 {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrCategoryNotFound, id)
	}
	cat := c.all[i]
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			c.mu.Unlock()
			return ErrEmptyName
		}
		cat.Name = name
	}
	if patch.Emoji != nil {
		glyph := core.ExtractEmoji(*patch.Emoji)
		if glyph == "" {
			c.mu.Unlock()
			return ErrEmptyEmoji
		}
		cat.Emoji = glyph
	}
	cat.IsCustom = true

	next := slices.Clone(c.all)
	next[i] = cat
	if err := c.persist(ctx, next); err != nil {
		c.mu.Unlock()
		return err
	}
	c.all = next
	c.mu.Unlock()

	c.commit(Change{Kind: ChangeUpdated, Collection: CollectionCategories, ID: id})
	return nil
}

// Delete hides the category. The record itself stays so that expenses
// pointing at it keep their name and emoji. Unknown ids are ignored.
func (c *Categories) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	if c.indexOf(id) < 0 || slices.Contains(c.hidden, id) {
		c.mu.Unlock()
		return nil
	}
	next := append(slices.Clone(c.hidden), id)
	if err := storage.SaveJSON(ctx, c.adapter, storage.KeyHiddenCategories, next); err != nil {
		c.mu.Unlock()
		return err
	}
	c.hidden = next
	c.mu.Unlock()

	slog.InfoContext(ctx, "Category hidden", "id", id)
	c.commit(Change{Kind: ChangeHidden, Collection: CollectionCategories, ID: id})
	return nil
}

// Restore makes a hidden category selectable again.
func (c *Categories) Restore(ctx context.Context, id string) error {
	c.mu.Lock()
	if !slices.Contains(c.hidden, id) {
		c.mu.Unlock()
		return nil
	}
	next := slices.DeleteFunc(slices.Clone(c.hidden), func(h string) bool { return h == id })
	if err := storage.SaveJSON(ctx, c.adapter, storage.KeyHiddenCategories, next); err != nil {
		c.mu.Unlock()
		return err
	}
	c.hidden = next
	c.mu.Unlock()

	c.commit(Change{Kind: ChangeRestored, Collection: CollectionCategories, ID: id})
	return nil
}

// Reorder replaces the display order. Ids are not checked against the
// catalog; unknown ones are simply never matched.
func (c *Categories) Reorder(ctx context.Context, ids []string) error {
	next := slices.Clone(ids)
	if next == nil {
		next = []string{}
	}
	c.mu.Lock()
	if err := storage.SaveJSON(ctx, c.adapter, storage.KeyCategoryOrder, next); err != nil {
		c.mu.Unlock()
		return err
	}
	c.order = next
	c.mu.Unlock()

	c.commit(Change{Kind: ChangeReordered, Collection: CollectionCategories})
	return nil
}

func (c *Categories) purge(ctx context.Context, id string, referenced bool) error {
	if core.IsBuiltinID(id) {
		return ErrBuiltinCategory
	}
	c.mu.Lock()
	i := c.indexOf(id)
	if i < 0 {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrCategoryNotFound, id)
	}
	if referenced {
		c.mu.Unlock()
		return ErrCategoryReferenced
	}
	next := slices.Delete(slices.Clone(c.all), i, i+1)
	if err := c.persist(ctx, next); err != nil {
		c.mu.Unlock()
		return err
	}
	c.all = next
	if slices.Contains(c.hidden, id) {
		hidden := slices.DeleteFunc(slices.Clone(c.hidden), func(h string) bool { return h == id })
		if err := storage.SaveJSON(ctx, c.adapter, storage.KeyHiddenCategories, hidden); err != nil {
			slog.WarnContext(ctx, "Failed to drop purged category from hidden set", "id", id, "error", err)
		} else {
			c.hidden = hidden
		}
	}
	c.mu.Unlock()

	slog.InfoContext(ctx, "Category purged", "id", id)
	c.commit(Change{Kind: ChangeDeleted, Collection: CollectionCategories, ID: id})
	return nil
}

// planMerge must be called with c.mu held.
func (c *Categories) planMerge(incoming []core.Category) ([]core.Category, int) {
	present := make(map[string]struct{}, len(c.all))
	for _, cat := range c.all {
		present[cat.ID] = struct{}{}
	}
	next := slices.Clone(c.all)
	added := 0
	for _, cat := range incoming {
		if !cat.IsCustom || cat.ID == "" {
			continue
		}
		if _, ok := present[cat.ID]; ok {
			continue
		}
		present[cat.ID] = struct{}{}
		next = append(next, cat)
		added++
	}
	return next, added
}

func (c *Categories) persist(ctx context.Context, all []core.Category) error {
	return storage.SaveJSON(ctx, c.adapter, storage.KeyCategories, customOnly(all))
}

func (c *Categories) indexOf(id string) int {
	return slices.IndexFunc(c.all, func(cat core.Category) bool { return cat.ID == id })
}

func customOnly(all []core.Category) []core.Category {
	out := make([]core.Category, 0, len(all))
	for _, cat := range all {
		if cat.IsCustom {
			out = append(out, cat)
		}
	}
	return out
}

// sortByOrder sorts cats by their position in order. Ids missing from order
// go last and keep their relative order.
func sortByOrder(cats []core.Category, order []string) []core.Category {
	if len(order) == 0 {
		return cats
	}
	rank := make(map[string]int, len(order))
	for i, id := range order {
		if _, ok := rank[id]; !ok {
			rank[id] = i
		}
	}
	rankOf := func(id string) int {
		if r, ok := rank[id]; ok {
			return r
		}
		return len(order)
	}
	sort.SliceStable(cats, func(i, j int) bool {
		return rankOf(cats[i].ID) < rankOf(cats[j].ID)
	})
	return cats
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func dedupe(ids []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
