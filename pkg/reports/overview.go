package reports

import (
	"context"

	"github.com/foomo/contentreports/content"
)

// Overview counts the site's content by kind.
type Overview struct {
	Base
	counts map[string]int
}

func (r *Overview) Execute(ctx context.Context, session Session, offset, limit int) error {
	if err := r.begin(); err != nil {
		return err
	}
	r.counts = map[string]int{}
	for key, nodeType := range map[string]string{
		"nbPages":             content.TypePage,
		"nbContents":          content.TypeContent,
		"nbEditorialContents": content.MixinEditorial,
		"nbUsers":             content.TypeUser,
		"nbWorkflowTasks":     content.TypeWorkflowTask,
		"nbFiles":             content.TypeFile,
		"nbImages":            content.MixinImage,
	} {
		r.counts[key] = r.count(ctx, session, r.scopeQuery(nodeType, r.site.Root.Path))
	}
	return nil
}

func (r *Overview) Payload() map[string]interface{} {
	payload := r.basePayload()
	for key, count := range r.counts {
		payload[key] = count
	}
	payload["nbTemplates"] = len(r.site.Templates)
	payload["languages"] = r.site.SortedLanguages()
	payload["nbLanguages"] = len(r.site.Languages)
	return payload
}
