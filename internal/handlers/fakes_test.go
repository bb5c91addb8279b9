package handlers

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"smartrecipe/internal/models"

	"github.com/google/uuid"
)

// fakeStore is an in-memory stand-in for every repository.
type fakeStore struct {
	mutex sync.Mutex
	now   time.Time

	users    map[string]*models.User
	recipes  map[string]*models.Recipe
	likes    map[string][]string
	saved    map[string][]string
	comments map[string][]models.Comment
	lists    map[string]*models.GroceryList
	memories map[string]*models.Memory
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		now:      time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		users:    map[string]*models.User{},
		recipes:  map[string]*models.Recipe{},
		likes:    map[string][]string{},
		saved:    map[string][]string{},
		comments: map[string][]models.Comment{},
		lists:    map[string]*models.GroceryList{},
		memories: map[string]*models.Memory{},
	}
}

// tick hands out strictly increasing timestamps so ordering is stable.
func (f *fakeStore) tick() time.Time {
	f.now = f.now.Add(time.Second)
	return f.now
}

func (f *fakeStore) CreateUser(_ context.Context, name, email, passwordHash string) (*models.User, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			return nil, models.ErrConflict
		}
	}
	u := &models.User{ID: uuid.NewString(), Name: name, Email: email, PasswordHash: passwordHash, Date: f.tick()}
	f.users[u.ID] = u
	cp := *u
	return &cp, nil
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeStore) GetUserByID(_ context.Context, id string) (*models.User, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *u
	cp.SavedRecipes = append([]string{}, f.saved[id]...)
	cp.GroceryLists = []string{}
	for _, l := range f.lists {
		if l.UserID == id {
			cp.GroceryLists = append(cp.GroceryLists, l.ID)
		}
	}
	return &cp, nil
}

func (f *fakeStore) recipeCopy(r *models.Recipe) models.Recipe {
	cp := *r
	cp.Likes = append([]string{}, f.likes[r.ID]...)
	cp.Comments = append([]models.Comment{}, f.comments[r.ID]...)
	return cp
}

func (f *fakeStore) filterRecipes(keep func(*models.Recipe) bool) []models.Recipe {
	out := []models.Recipe{}
	for _, r := range f.recipes {
		if keep(r) {
			out = append(out, f.recipeCopy(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

func (f *fakeStore) ListPublicRecipes(context.Context) ([]models.Recipe, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.filterRecipes(func(r *models.Recipe) bool { return r.IsPublic }), nil
}

func (f *fakeStore) ListRecipesByUser(_ context.Context, userID string) ([]models.Recipe, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.filterRecipes(func(r *models.Recipe) bool { return r.OwnedBy(userID) }), nil
}

func (f *fakeStore) ListSavedRecipes(_ context.Context, userID string) ([]models.Recipe, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	out := []models.Recipe{}
	for _, id := range f.saved[userID] {
		if r, ok := f.recipes[id]; ok && (r.IsPublic || r.OwnedBy(userID)) {
			out = append(out, f.recipeCopy(r))
		}
	}
	return out, nil
}

func (f *fakeStore) ListLikedRecipeIDs(_ context.Context, userID string) ([]string, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	ids := []string{}
	for recipeID, users := range f.likes {
		if slices.Contains(users, userID) {
			ids = append(ids, recipeID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (f *fakeStore) GetRecipe(_ context.Context, id string) (*models.Recipe, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	r, ok := f.recipes[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := f.recipeCopy(r)
	return &cp, nil
}

func (f *fakeStore) CreateRecipe(_ context.Context, recipe *models.Recipe) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	recipe.ID = uuid.NewString()
	recipe.Date = f.tick()
	if recipe.User != nil {
		if u, ok := f.users[recipe.User.ID]; ok {
			recipe.User.Name = u.Name
		}
	}
	recipe.Likes = []string{}
	recipe.Comments = []models.Comment{}
	cp := *recipe
	f.recipes[recipe.ID] = &cp
	return nil
}

func (f *fakeStore) UpdateRecipe(_ context.Context, recipe *models.Recipe) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if _, ok := f.recipes[recipe.ID]; !ok {
		return models.ErrNotFound
	}
	cp := *recipe
	f.recipes[recipe.ID] = &cp
	return nil
}

func (f *fakeStore) DeleteRecipe(_ context.Context, id string) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if _, ok := f.recipes[id]; !ok {
		return models.ErrNotFound
	}
	delete(f.recipes, id)
	delete(f.likes, id)
	delete(f.comments, id)
	return nil
}

func (f *fakeStore) SaveRecipe(_ context.Context, userID, recipeID string) ([]string, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if _, ok := f.recipes[recipeID]; !ok {
		return nil, models.ErrNotFound
	}
	if slices.Contains(f.saved[userID], recipeID) {
		return nil, models.ErrConflict
	}
	f.saved[userID] = append(f.saved[userID], recipeID)
	return append([]string{}, f.saved[userID]...), nil
}

func (f *fakeStore) UnsaveRecipe(_ context.Context, userID, recipeID string) ([]string, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	i := slices.Index(f.saved[userID], recipeID)
	if i < 0 {
		return nil, models.ErrConflict
	}
	f.saved[userID] = slices.Delete(f.saved[userID], i, i+1)
	return append([]string{}, f.saved[userID]...), nil
}

func (f *fakeStore) LikeRecipe(_ context.Context, recipeID, userID string) ([]string, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if _, ok := f.recipes[recipeID]; !ok {
		return nil, models.ErrNotFound
	}
	if slices.Contains(f.likes[recipeID], userID) {
		return nil, models.ErrConflict
	}
	f.likes[recipeID] = append([]string{userID}, f.likes[recipeID]...)
	return append([]string{}, f.likes[recipeID]...), nil
}

func (f *fakeStore) UnlikeRecipe(_ context.Context, recipeID, userID string) ([]string, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	i := slices.Index(f.likes[recipeID], userID)
	if i < 0 {
		return nil, models.ErrConflict
	}
	f.likes[recipeID] = slices.Delete(f.likes[recipeID], i, i+1)
	return append([]string{}, f.likes[recipeID]...), nil
}

func (f *fakeStore) AddComment(_ context.Context, recipeID, userID, text string) ([]models.Comment, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if _, ok := f.recipes[recipeID]; !ok {
		return nil, models.ErrNotFound
	}
	author := &models.Author{ID: userID}
	if u, ok := f.users[userID]; ok {
		author.Name = u.Name
	}
	comment := models.Comment{ID: uuid.NewString(), User: author, Text: text, Date: f.tick()}
	f.comments[recipeID] = append([]models.Comment{comment}, f.comments[recipeID]...)
	return append([]models.Comment{}, f.comments[recipeID]...), nil
}

func listCopy(l *models.GroceryList) *models.GroceryList {
	cp := *l
	cp.Items = append([]models.GroceryItem{}, l.Items...)
	return &cp
}

func (f *fakeStore) ListGroceryLists(_ context.Context, userID string) ([]models.GroceryList, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	out := []models.GroceryList{}
	for _, l := range f.lists {
		if l.UserID == userID {
			out = append(out, *listCopy(l))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (f *fakeStore) GetGroceryList(_ context.Context, id string) (*models.GroceryList, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	l, ok := f.lists[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return listCopy(l), nil
}

func (f *fakeStore) assignItemIDs(list *models.GroceryList) {
	if list.Items == nil {
		list.Items = []models.GroceryItem{}
	}
	for i := range list.Items {
		if _, err := uuid.Parse(list.Items[i].ID); err != nil {
			list.Items[i].ID = uuid.NewString()
		}
	}
}

func (f *fakeStore) CreateGroceryList(_ context.Context, list *models.GroceryList) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	list.ID = uuid.NewString()
	list.Date = f.tick()
	f.assignItemIDs(list)
	f.lists[list.ID] = listCopy(list)
	return nil
}

func (f *fakeStore) UpdateGroceryList(_ context.Context, list *models.GroceryList) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if _, ok := f.lists[list.ID]; !ok {
		return models.ErrNotFound
	}
	f.assignItemIDs(list)
	f.lists[list.ID] = listCopy(list)
	return nil
}

func (f *fakeStore) DeleteGroceryList(_ context.Context, id string) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if _, ok := f.lists[id]; !ok {
		return models.ErrNotFound
	}
	delete(f.lists, id)
	return nil
}

func (f *fakeStore) AddGroceryItem(_ context.Context, listID string, item models.GroceryItem) (*models.GroceryList, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	l, ok := f.lists[listID]
	if !ok {
		return nil, models.ErrNotFound
	}
	item.ID = uuid.NewString()
	item.Checked = false
	l.Items = append(l.Items, item)
	return listCopy(l), nil
}

func (f *fakeStore) ToggleGroceryItem(_ context.Context, listID, itemID string) (*models.GroceryList, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	l, ok := f.lists[listID]
	if !ok {
		return nil, models.ErrNotFound
	}
	for i := range l.Items {
		if l.Items[i].ID == itemID {
			l.Items[i].Checked = !l.Items[i].Checked
			return listCopy(l), nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeStore) RemoveGroceryItem(_ context.Context, listID, itemID string) (*models.GroceryList, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	l, ok := f.lists[listID]
	if !ok {
		return nil, models.ErrNotFound
	}
	for i := range l.Items {
		if l.Items[i].ID == itemID {
			l.Items = slices.Delete(l.Items, i, i+1)
			return listCopy(l), nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeStore) SuggestGroceryItems(_ context.Context, userID, query string, limit int) ([]models.GrocerySuggestion, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	counts := map[string]int{}
	for _, l := range f.lists {
		if l.UserID != userID {
			continue
		}
		for _, item := range l.Items {
			name := strings.ToLower(item.Name)
			if strings.Contains(name, strings.ToLower(query)) {
				counts[name]++
			}
		}
	}
	out := []models.GrocerySuggestion{}
	for name, n := range counts {
		out = append(out, models.GrocerySuggestion{Name: name, Frequency: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Frequency != out[j].Frequency {
			return out[i].Frequency > out[j].Frequency
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) ListMemories(_ context.Context, userID string) ([]models.Memory, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	out := []models.Memory{}
	for _, m := range f.memories {
		if m.UserID == userID {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (f *fakeStore) GetMemory(_ context.Context, id string) (*models.Memory, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	m, ok := f.memories[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (f *fakeStore) CreateMemory(_ context.Context, memory *models.Memory) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	memory.ID = uuid.NewString()
	memory.Date = f.tick()
	cp := *memory
	f.memories[memory.ID] = &cp
	return nil
}

func (f *fakeStore) UpdateMemory(_ context.Context, memory *models.Memory) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if _, ok := f.memories[memory.ID]; !ok {
		return models.ErrNotFound
	}
	cp := *memory
	f.memories[memory.ID] = &cp
	return nil
}

func (f *fakeStore) DeleteMemory(_ context.Context, id string) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if _, ok := f.memories[id]; !ok {
		return models.ErrNotFound
	}
	delete(f.memories, id)
	return nil
}

type broadcast struct {
	kind string
	key  string
	data interface{}
}

type fakeBroadcaster struct {
	mutex sync.Mutex
	sent  []broadcast
}

func (b *fakeBroadcaster) BroadcastRecipeUpdate(recipeID string, data interface{}) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.sent = append(b.sent, broadcast{kind: "recipe", key: recipeID, data: data})
}

func (b *fakeBroadcaster) BroadcastGroceryUpdate(userID string, data interface{}) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.sent = append(b.sent, broadcast{kind: "grocery", key: userID, data: data})
}

func (b *fakeBroadcaster) messages() []broadcast {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return append([]broadcast{}, b.sent...)
}
