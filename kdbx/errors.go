package kdbx

import "errors"

// Errors returned while opening or saving a database. They are sentinel
// values so callers can compare with errors.Is even when wrapped with
// additional context via fmt.Errorf("...: %w", err).
var (
	ErrInvalidMagic            = errors.New("kdbx: invalid file signature")
	ErrUnsupportedVersion      = errors.New("kdbx: unsupported file version")
	ErrIncorrectKey            = errors.New("kdbx: incorrect key or corrupt database")
	ErrIntegrityFailed         = errors.New("kdbx: header or content integrity check failed")
	ErrBadHeader               = errors.New("kdbx: malformed outer header")
	ErrBadVariantDictionary    = errors.New("kdbx: malformed variant dictionary")
	ErrBadInnerHeader          = errors.New("kdbx: malformed inner header")
	ErrUnsupportedCipher       = errors.New("kdbx: unsupported outer cipher")
	ErrUnsupportedKDF          = errors.New("kdbx: unsupported key derivation function")
	ErrUnsupportedCompression  = errors.New("kdbx: unsupported compression flag")
	ErrUnsupportedStreamCipher = errors.New("kdbx: unsupported protected stream cipher")
	ErrInvalidKeyFile          = errors.New("kdbx: invalid key file")
	ErrXMLParse                = errors.New("kdbx: malformed inner XML payload")
	ErrBlockHashMismatch       = errors.New("kdbx: block hash mismatch")
	ErrIO                      = errors.New("kdbx: i/o error")
	ErrCryptoInit              = errors.New("kdbx: failed to initialize cipher")
)
