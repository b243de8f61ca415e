package kdbx

// OuterCipher identifies the outer container cipher a caller wants when
// building a new database's settings.
type OuterCipher int

const (
	OuterCipherAES256 OuterCipher = iota
	OuterCipherTwofish
	OuterCipherChaCha20
)

// KDFChoice identifies the key derivation function a caller wants.
type KDFChoice int

const (
	KDFChoiceAES KDFChoice = iota
	KDFChoiceArgon2d
	KDFChoiceArgon2id
)

// DatabaseSettings are the container-level parameters read from (or to be
// written into) the outer header: cipher choice, KDF choice and parameters,
// compression, and the inner stream cipher choice.
type DatabaseSettings struct {
	CipherID         []byte
	CompressionFlags uint32
	KdfParameters    *variantDictionary
	TransformSeed    []byte // AES-KDF only (KDBX3)
	TransformRounds  uint64 // AES-KDF only (KDBX3)
	InnerStreamID    uint32
}

// Database is the in-memory root of the object graph produced by Decode and
// consumed by Encode.
type Database struct {
	Generation     Generation
	Settings       DatabaseSettings
	Meta           Meta
	Root           Group
	DeletedObjects []DeletedObject
	Binaries       BinaryPool

	masterSeed     []byte
	transformedKey []byte
}

// NewDatabase returns a fresh KDBX4 database with default Argon2id KDF
// settings. Meta.DatabaseName is set to name, and so is the name of the one
// root group, which falls back to "NewDatabase" when name is empty.
func NewDatabase(name string) *Database {
	root := NewGroup()
	root.Name = "NewDatabase"
	if name != "" {
		root.Name = name
	}

	db := &Database{
		Generation: GenerationKDBX4,
		Meta:       NewMeta(),
		Root:       root,
	}
	db.Meta.DatabaseName = name
	db.Settings = defaultKDBX4Settings()
	return db
}

func defaultKDBX4Settings() DatabaseSettings {
	dict := newVariantDictionary()
	dict.setBytes("$UUID", KdfArgon2id)
	dict.setUint64("I", 2)
	dict.setUint64("M", 1048576)
	dict.setUint32("P", 2)
	dict.setUint32("V", 0x13)
	salt := make([]byte, 32)
	dict.setBytes("S", salt)

	return DatabaseSettings{
		CipherID:         CipherChaCha20,
		CompressionFlags: CompressionGzip,
		KdfParameters:    dict,
		InnerStreamID:    InnerStreamChaCha,
	}
}

// RootGroup returns a pointer to the root group for in-place mutation.
func (db *Database) RootGroup() *Group {
	return &db.Root
}

// IterAllEntries returns every Entry in the database in depth-first,
// groups-before-children order (a group's own entries, then its subgroups).
func (db *Database) IterAllEntries() []*Entry {
	var out []*Entry
	var walk func(g *Group)
	walk = func(g *Group) {
		for _, e := range g.Entries() {
			out = append(out, e)
		}
		for _, sub := range g.Groups() {
			walk(sub)
		}
	}
	walk(&db.Root)
	return out
}

// FindGroup returns the group with the given UUID, or nil.
func (db *Database) FindGroup(id UUID) *Group {
	var found *Group
	var walk func(g *Group)
	walk = func(g *Group) {
		if found != nil {
			return
		}
		if g.UUID.Equal(id) {
			found = g
			return
		}
		for _, sub := range g.Groups() {
			walk(sub)
		}
	}
	walk(&db.Root)
	return found
}
