package store

import "github.com/iov-one/mintgate"

// Move references for all storage types into this package
// for shorter names everywhere.

type ReadOnlyKVStore = mintgate.ReadOnlyKVStore
type SetDeleter = mintgate.SetDeleter
type KVStore = mintgate.KVStore
type Batch = mintgate.Batch
type CacheableKVStore = mintgate.CacheableKVStore
type KVCacheWrap = mintgate.KVCacheWrap
type CommitKVStore = mintgate.CommitKVStore
type CommitID = mintgate.CommitID
