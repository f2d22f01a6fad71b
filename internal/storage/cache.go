// cache.go - In-memory cache for kitchen data (inventory and recipes)

package storage

import (
	"sync"
	"time"
)

// KitchenDataCache stores one user's inventory and recipes, loaded together
// so recipe costing does not hit the database per request.
type KitchenDataCache struct {
	Inventory []InventoryItem
	Recipes   []Recipe
	LoadedAt  time.Time
	UserID    string
}

// Global cache map: userID -> cache
var kitchenDataCacheMap = make(map[string]*KitchenDataCache)
var cacheMutex sync.RWMutex

const CACHE_TTL = 5 * time.Minute

// GetOrLoadKitchenData retrieves kitchen data from cache or loads from DB
func GetOrLoadKitchenData(userID string) (*KitchenDataCache, error) {
	cacheMutex.RLock()
	cache, exists := kitchenDataCacheMap[userID]
	cacheMutex.RUnlock()

	if exists && time.Since(cache.LoadedAt) < CACHE_TTL {
		return cache, nil
	}

	cacheMutex.Lock()
	defer cacheMutex.Unlock()

	// Double-check after acquiring write lock
	cache, exists = kitchenDataCacheMap[userID]
	if exists && time.Since(cache.LoadedAt) < CACHE_TTL {
		return cache, nil
	}

	inventory, err := ListInventory(userID)
	if err != nil {
		return nil, err
	}

	recipes, err := ListRecipes(userID)
	if err != nil {
		return nil, err
	}

	newCache := &KitchenDataCache{
		Inventory: inventory,
		Recipes:   recipes,
		LoadedAt:  time.Now(),
		UserID:    userID,
	}

	kitchenDataCacheMap[userID] = newCache
	return newCache, nil
}

// InvalidateCache removes cached kitchen data for one user. Call after any
// inventory or recipe write.
func InvalidateCache(userID string) {
	cacheMutex.Lock()
	defer cacheMutex.Unlock()
	delete(kitchenDataCacheMap, userID)
}

// ClearAllCache removes all cached data
func ClearAllCache() {
	cacheMutex.Lock()
	defer cacheMutex.Unlock()
	kitchenDataCacheMap = make(map[string]*KitchenDataCache)
}
