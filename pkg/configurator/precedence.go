package configurator

import (
	"slices"

	"github.com/matzehuels/stacklayout/pkg/model"
)

// precedenceRule is one row of the type-precedence table. A rule applies to
// the kinds it lists; if stop is set, evaluation ends after the rule applied.
type precedenceRule struct {
	tag   model.Tag
	kinds []model.Kind
	stop  bool
}

// precedenceTable is evaluated top to bottom; later rules override earlier
// ones. The order encodes element-kind precedence and must not change.
var precedenceTable = []precedenceRule{
	{tag: model.TagElement, kinds: model.Kinds},
	{tag: model.TagShape, kinds: []model.Kind{model.KindNode, model.KindPort, model.KindLabel}},
	{tag: model.TagLabel, kinds: []model.Kind{model.KindLabel}, stop: true},
	{tag: model.TagConnectableShape, kinds: []model.Kind{model.KindNode, model.KindPort}},
	{tag: model.TagNode, kinds: []model.Kind{model.KindNode}, stop: true},
	{tag: model.TagPort, kinds: []model.Kind{model.KindPort}, stop: true},
	{tag: model.TagEdge, kinds: []model.Kind{model.KindEdge}},
}

func (r precedenceRule) matches(k model.Kind) bool {
	return slices.Contains(r.kinds, k)
}

// Precedence returns the tags whose containers are merged for an element of
// kind k, from most general to most specific.
func Precedence(k model.Kind) []model.Tag {
	var tags []model.Tag
	for _, r := range precedenceTable {
		if !r.matches(k) {
			continue
		}
		tags = append(tags, r.tag)
		if r.stop {
			break
		}
	}
	return tags
}
