package transform

import (
	"fmt"
	"sort"

	"github.com/cameronsjo/stackform/internal/document"
)

// renamedSections are renamed with the placeholder prefix.
var renamedSections = []string{
	document.SectionResources,
	document.SectionMappings,
	document.SectionConditions,
	document.SectionOutputs,
}

// mergedSections are spliced into the parent. Outputs are consumed by
// value and never merged.
var mergedSections = []string{
	document.SectionResources,
	document.SectionMappings,
	document.SectionConditions,
}

// renameOutputReferences points the parent's references to the
// placeholder's outputs at the renamed output entries:
//
//	{"Fn::GetAtt": [P, "Outputs.K"]}  -> {"Ref": "PK"}
//	{"Fn::GetAtt": "P.Outputs.K"}     -> {"Ref": "PK"}
//	${P.Outputs.K}                    -> ${PK}
func (r *run) renameOutputReferences(f *fragment) {
	for _, key := range f.outputs {
		attribute := "Outputs." + key
		target := document.Ref(f.renamed(key))

		document.SearchAndReplace(r.doc, document.GetAtt(f.name, attribute), target, false)
		document.SearchAndReplace(r.doc, map[string]any{document.KindGetAtt.Key(): f.name + "." + attribute}, target, false)
		document.SearchAndReplace(r.doc, f.name+"."+attribute, f.renamed(key), false)
	}
}

// prepare renames the fragment's entries, resolves its dependency mapping,
// sanitizes its conditions and substitutes its parameters. Renaming runs
// before substitution so a parameter value equal to an original key is not
// renamed.
func (r *run) prepare(f *fragment) error {
	renames, err := r.renameEntries(f)
	if err != nil {
		return err
	}

	// Longest first: a rename target is always longer than its source, so
	// no later rename can match a name produced by an earlier one.
	originals := make([]string, 0, len(renames))
	for key := range renames {
		originals = append(originals, key)
	}
	sort.Slice(originals, func(i, j int) bool {
		if len(originals[i]) != len(originals[j]) {
			return len(originals[i]) > len(originals[j])
		}
		return originals[i] < originals[j]
	})
	for _, key := range originals {
		document.SearchAndReplace(f.body, key, renames[key], false)
	}

	resources := document.Section(f.body, document.SectionResources)
	for _, target := range dependencyTargets(f.body) {
		renamed := f.renamed(target)
		if _, ok := resources[renamed]; !ok {
			return fmt.Errorf("transform %s: dependency mapping names %q, which is not a fragment resource", f.name, target)
		}
		f.targets = append(f.targets, renamed)
	}

	parentResources := document.Section(r.doc, document.SectionResources)
	placeholder, _ := parentResources[f.name].(map[string]any)
	resolved, err := ResolveParameters(f.name,
		document.Section(f.body, document.SectionParameters),
		suppliedParameters(placeholder),
		r.logger,
	)
	if err != nil {
		return err
	}

	conditions := document.Section(f.body, document.SectionConditions)
	params := document.SortedKeys(resolved)
	for _, param := range params {
		if SanitizeConditions(conditions, param, resolved[param], parentResources) {
			r.logger.Debug("parameter evaluated literally in conditions", "transform", f.name, "parameter", param)
		}
	}
	for _, param := range params {
		document.SearchAndReplace(f.body, param, resolved[param], true)
	}

	r.logger.Debug("prepared fragment", "transform", f.name, "renamed", len(renames), "parameters", len(params))
	return nil
}

// renameEntries prefixes every entry key of the renamed sections and returns
// the original-to-renamed map.
func (r *run) renameEntries(f *fragment) (map[string]string, error) {
	renames := make(map[string]string)
	for _, section := range renamedSections {
		entries := document.Section(f.body, section)
		if entries == nil {
			continue
		}

		existing := document.Section(r.doc, section)
		renamed := make(map[string]any, len(entries))
		for _, key := range document.SortedKeys(entries) {
			name := f.renamed(key)
			if _, taken := existing[name]; taken && section != document.SectionOutputs {
				return nil, &NameCollisionError{Section: section, Key: name, Fragment: f.name}
			}
			renamed[name] = entries[key]
			renames[key] = name
		}
		f.body[section] = renamed
	}
	return renames, nil
}

// merge splices a prepared fragment into the parent and retires its
// placeholder. pending are the fragments of the same round not merged yet;
// references to this fragment are rewritten in their bodies too.
func (r *run) merge(f *fragment, pending []*fragment) error {
	placeholder, ok := document.Section(r.doc, document.SectionResources)[f.name].(map[string]any)
	if !ok {
		return fmt.Errorf("transform %s: placeholder removed before merge", f.name)
	}

	if deps, ok := placeholder["DependsOn"]; ok {
		resources := document.Section(f.body, document.SectionResources)
		for _, target := range f.targets {
			if resource, ok := resources[target].(map[string]any); ok {
				resource["DependsOn"] = appendDependencies(resource["DependsOn"], deps)
			}
		}
	}

	outputs := document.Section(f.body, document.SectionOutputs)
	for _, key := range f.outputs {
		name := f.renamed(key)
		output, _ := outputs[name].(map[string]any)
		value, ok := output["Value"]
		if !ok {
			r.logger.Warn("fragment output has no Value", "transform", f.name, "output", key)
			continue
		}
		document.SearchAndReplace(r.doc, name, value, true)
		for _, g := range pending {
			document.SearchAndReplace(g.body, name, value, true)
		}
	}

	overlay := make(map[string]any, len(mergedSections))
	for _, section := range mergedSections {
		entries := document.Section(f.body, section)
		if entries == nil {
			continue
		}
		existing := document.Section(r.doc, section)
		for _, key := range document.SortedKeys(entries) {
			if _, taken := existing[key]; taken {
				return &NameCollisionError{Section: section, Key: key, Fragment: f.name}
			}
		}
		overlay[section] = entries
	}

	r.doc = document.Combine(r.doc, overlay, true)
	delete(document.Section(r.doc, document.SectionResources), f.name)

	r.redirect(f, pending)
	r.logger.Debug("merged fragment", "transform", f.name)
	return nil
}

// redirect rewrites what still refers to the retired placeholder. A single
// target takes every reference; with several, DependsOn lists gain all of
// them and any other reference points at the first.
func (r *run) redirect(f *fragment, pending []*fragment) {
	docs := []any{r.doc}
	for _, g := range pending {
		docs = append(docs, g.body)
	}

	switch len(f.targets) {
	case 0:
		remaining := 0
		for _, doc := range docs {
			remaining += document.CountReferences(doc, f.name)
		}
		if remaining > 0 {
			r.logger.Warn("template still references transform without a dependency mapping",
				"transform", f.name,
				"references", remaining,
			)
		}
	case 1:
		for _, doc := range docs {
			document.SearchAndReplace(doc, f.name, f.targets[0], false)
		}
	default:
		all := make([]any, len(f.targets))
		for i, target := range f.targets {
			all[i] = target
		}
		for _, doc := range docs {
			document.SearchAndReplace(doc, f.name, all, false)
			document.SearchAndReplace(doc, f.name, f.targets[0], false)
		}
	}
}

// appendDependencies concatenates deps onto a resource's existing
// DependsOn.
func appendDependencies(existing, deps any) any {
	if existing == nil {
		return document.DeepCopy(deps)
	}

	var merged []any
	for _, dep := range append(document.StringList(existing), document.StringList(deps)...) {
		merged = append(merged, dep)
	}
	return merged
}
