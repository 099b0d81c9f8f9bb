package vm

import (
	"github.com/VictoriaMetrics/fastcache"
	lru "github.com/hashicorp/golang-lru/v2"
)

// moduleCache remembers which contract_addr‖cbi_version pairs have
// already passed Deploy-time validation, so a later ValidateForDeploy
// for the same pair within the same process skips the checks. Call does
// not consult it. Bounded and byte-keyed, which is exactly fastcache's
// shape.
type moduleCache struct {
	c *fastcache.Cache
}

func newModuleCache(maxBytes int) *moduleCache {
	return &moduleCache{c: fastcache.New(maxBytes)}
}

func moduleCacheKey(contractAddr []byte, cbiVersion uint32) []byte {
	k := make([]byte, 0, len(contractAddr)+4)
	k = append(k, contractAddr...)
	k = append(k, byte(cbiVersion), byte(cbiVersion>>8), byte(cbiVersion>>16), byte(cbiVersion>>24))
	return k
}

func (m *moduleCache) markValidated(contractAddr []byte, cbiVersion uint32) {
	m.c.Set(moduleCacheKey(contractAddr, cbiVersion), []byte{1})
}

func (m *moduleCache) isValidated(contractAddr []byte, cbiVersion uint32) bool {
	return m.c.Has(moduleCacheKey(contractAddr, cbiVersion))
}

// importCompatCache memoizes the (small, enumerable) CBI-version ->
// import-compatibility result so repeated Deploy validations don't ask
// the loader to recompute it. Call does not consult it.
type importCompatCache struct {
	c *lru.Cache[uint32, bool]
}

func newImportCompatCache(size int) *importCompatCache {
	c, _ := lru.New[uint32, bool](size)
	return &importCompatCache{c: c}
}

func (c *importCompatCache) get(cbiVersion uint32) (bool, bool) {
	return c.c.Get(cbiVersion)
}

func (c *importCompatCache) set(cbiVersion uint32, compatible bool) {
	c.c.Add(cbiVersion, compatible)
}
