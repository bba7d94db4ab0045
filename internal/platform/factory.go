package platform

import (
	"github.com/quillworks/quill/pkg/core"
)

// New builds a ready-to-use vault service rooted at path.
//
//	svc, err := quill.New("./content", quill.WithVersioning(false))
func New(path string, opts ...Option) (*core.Service, error) {
	repo, err := Init(path, opts...)
	if err != nil {
		return nil, err
	}

	return core.NewService(repo), nil
}
