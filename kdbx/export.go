package kdbx

// EncodeXML renders the decoded inner XML payload for inspection. Unlike
// Encoder.Encode, it does not re-apply the protected-stream cipher: the
// fields come out exactly as held in memory, which for a Database obtained
// from Decoder.Decode means plaintext, not the on-disk obfuscated form.
func (db *Database) EncodeXML() ([]byte, error) {
	metaWire := metaToWire(db.Meta, false, db.Binaries)
	rootWire := rootToWire(db.Root, db.DeletedObjects, false)
	content := dbContent{Meta: &metaWire, Root: rootWire}
	return encodeXML(content)
}
