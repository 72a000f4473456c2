package entity

// FingerprintLength is the length of a cache key in hex characters.
const FingerprintLength = 16

// Fingerprint identifies one (image, backend, mode, saturation) combination.
type Fingerprint struct {
	Key string
	// ImageHash is the content sample hash, empty when the file could not be read.
	ImageHash string
	// Degraded is set when the key was derived from the path alone.
	Degraded bool
}
