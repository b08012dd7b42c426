package tilestore

type NoopCache struct{}

func NewNoopCache() *NoopCache {
	return &NoopCache{}
}

func (c *NoopCache) Get(key Key) ([]byte, bool) {
	return nil, false
}

func (c *NoopCache) Set(key Key, value []byte) {
}

func (c *NoopCache) Len() int {
	return 0
}

func (c *NoopCache) Clear() {
}
