//go:build !windows

package win32

// Open reports ErrUnsupportedPlatform outside Windows.
func Open(Options) (*Session, error) {
	return nil, ErrUnsupportedPlatform
}
