package apollo

import (
	"path/filepath"
	"strings"

	"github.com/go-slark/baton/encoding/properties"
	"github.com/go-slark/baton/encoding/yaml"
	"github.com/philchia/agollo/v4"
)

type Apollo struct {
	client    agollo.Client
	namespace string
	notify    chan struct{}
}

// New connects to apollo and follows the first configured namespace,
// "application" when none is set.
func New(c *agollo.Conf) (*Apollo, error) {
	client := agollo.NewClient(c)
	err := client.Start()
	if err != nil {
		return nil, err
	}
	namespace := "application"
	if len(c.NameSpaceNames) > 0 {
		namespace = c.NameSpaceNames[0]
	}
	ap := &Apollo{
		client:    client,
		namespace: namespace,
		notify:    make(chan struct{}, 1),
	}
	client.OnUpdate(func(e *agollo.ChangeEvent) {
		if e.Namespace != ap.namespace {
			return
		}
		select {
		case ap.notify <- struct{}{}:
		default:
		}
	})
	return ap, nil
}

func (a *Apollo) Load() ([]byte, error) {
	cfg := a.client.GetContent(agollo.WithNamespace(a.namespace))
	return []byte(cfg), nil
}

func (a *Apollo) Watch() <-chan struct{} {
	return a.notify
}

func (a *Apollo) Close() error {
	return a.client.Stop()
}

// Format follows the namespace extension, properties when there is none.
func (a *Apollo) Format() string {
	ext := strings.TrimPrefix(filepath.Ext(a.namespace), ".")
	switch ext {
	case "":
		return properties.Name
	case "yml":
		return yaml.Name
	}
	return ext
}
