package resource

//go:generate mockgen -destination mock/namespaces_mock.go -package mock gitlab.com/gitlab-org/gitlab-static/internal/resource Namespaces

// Namespaces resolves a namespace name to the base directory docroots in
// that namespace are relative to
type Namespaces interface {
	BaseDir(namespace string) (string, error)
}

// StaticNamespaces is a fixed namespace to base directory mapping
type StaticNamespaces map[string]string

// BaseDir returns the base directory registered for namespace
func (s StaticNamespaces) BaseDir(namespace string) (string, error) {
	dir, ok := s[namespace]
	if !ok {
		return "", ErrUnknownNamespace
	}

	return dir, nil
}
