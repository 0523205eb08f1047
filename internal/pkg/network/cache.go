package network

import (
	"bytes"
	"container/list"
	"crypto/md5"
	"encoding/hex"
	"os"
	"path/filepath"
	"sync"

	"github.com/gregjones/httpcache"
	"github.com/peterbourgon/diskv"
)

// ResponseCache 容量固定的磁盘响应缓存，超出 maxBytes 时按最近最少使用淘汰
type ResponseCache struct {
	mu       sync.Mutex
	disk     *diskv.Diskv
	dir      string
	maxBytes uint64
	size     uint64
	lru      *list.List
	index    map[string]*list.Element
}

type cacheEntry struct {
	key  string
	size uint64
}

var _ httpcache.Cache = (*ResponseCache)(nil)

// NewResponseCache 在 dir 下创建缓存，并把已存在的条目计入容量
func NewResponseCache(dir string, maxBytes uint64) (*ResponseCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	d := diskv.New(diskv.Options{
		BasePath:     dir,
		CacheSizeMax: maxBytes / 4,
	})
	c := &ResponseCache{
		disk:     d,
		dir:      dir,
		maxBytes: maxBytes,
		lru:      list.New(),
		index:    make(map[string]*list.Element),
	}

	for key := range d.Keys(nil) {
		info, err := os.Stat(filepath.Join(dir, key))
		if err != nil {
			continue
		}
		c.track(key, uint64(info.Size()))
	}
	c.evict()
	return c, nil
}

// Size 当前占用字节数
func (c *ResponseCache) Size() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

func keyToFilename(key string) string {
	sum := md5.Sum([]byte(key))
	return hex.EncodeToString(sum[:])
}

func (c *ResponseCache) Get(key string) ([]byte, bool) {
	key = keyToFilename(key)
	resp, err := c.disk.Read(key)
	if err != nil {
		return nil, false
	}
	c.mu.Lock()
	if e, found := c.index[key]; found {
		c.lru.MoveToFront(e)
	}
	c.mu.Unlock()
	return resp, true
}

func (c *ResponseCache) Set(key string, resp []byte) {
	if uint64(len(resp)) > c.maxBytes {
		return
	}
	key = keyToFilename(key)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.disk.WriteStream(key, bytes.NewReader(resp), true); err != nil {
		return
	}
	c.track(key, uint64(len(resp)))
	c.evict()
}

func (c *ResponseCache) Delete(key string) {
	key = keyToFilename(key)

	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.disk.Erase(key)
	c.untrack(key)
}

// track 调用方需持有锁（构造阶段除外），key 为已哈希的文件名
func (c *ResponseCache) track(key string, size uint64) {
	if e, ok := c.index[key]; ok {
		entry := e.Value.(*cacheEntry)
		c.size -= entry.size
		entry.size = size
		c.size += size
		c.lru.MoveToFront(e)
		return
	}
	c.index[key] = c.lru.PushFront(&cacheEntry{key: key, size: size})
	c.size += size
}

func (c *ResponseCache) untrack(key string) {
	e, ok := c.index[key]
	if !ok {
		return
	}
	c.size -= e.Value.(*cacheEntry).size
	c.lru.Remove(e)
	delete(c.index, key)
}

func (c *ResponseCache) evict() {
	for c.size > c.maxBytes {
		oldest := c.lru.Back()
		if oldest == nil {
			return
		}
		key := oldest.Value.(*cacheEntry).key
		c.untrack(key)
		_ = c.disk.Erase(key)
	}
}
