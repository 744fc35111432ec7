package subclip

import (
	"strings"
	"text/template"
	"time"
)

// NamingConfig decides the local file name for a materialized acquisition.
type NamingConfig interface {
	FileName(ref ContentReference, resolution string, ext string) (string, error)
}

type namingConfig struct {
	fileTemplate *template.Template
	now          func() time.Time
}

// NewNamingConfig returns the default naming scheme,
// "instagram_<contentID>_<resolution>_<unix timestamp>.<ext>". Profile photos
// use the username in place of the content id.
func NewNamingConfig() NamingConfig {
	return &namingConfig{
		fileTemplate: template.Must(template.New("file_name").Parse(
			"instagram_{{.ID}}_{{.Resolution}}_{{.Timestamp}}.{{.Ext}}")),
		now: time.Now,
	}
}

func (c *namingConfig) FileName(ref ContentReference, resolution string, ext string) (string, error) {
	id := ref.ContentID
	if id == "" {
		id = ref.Username
	}
	if id == "" {
		id = "unknown"
	}
	args := fileTemplateArgs{
		ID:         id,
		Resolution: resolution,
		Timestamp:  c.now().Unix(),
		Ext:        strings.TrimPrefix(ext, "."),
	}
	builder := strings.Builder{}
	if err := c.fileTemplate.Execute(&builder, &args); err != nil {
		return "", err
	} else {
		return builder.String(), nil
	}
}

type fileTemplateArgs struct {
	ID         string
	Resolution string
	Timestamp  int64
	Ext        string
}
