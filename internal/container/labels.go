package container

import (
	"sort"
	"strings"

	"stackhand/internal/constants"
)

// groupByProject folds the label sets of individual containers into one
// ActiveStack per compose project, sorted by project name. The first
// container carrying a working directory supplies the path metadata.
func groupByProject(labelSets []map[string]string) []ActiveStack {
	byProject := make(map[string]*ActiveStack)
	for _, labels := range labelSets {
		project := labels[constants.LabelComposeProject]
		if project == "" {
			continue
		}

		stack, ok := byProject[project]
		if !ok {
			stack = &ActiveStack{Project: project}
			byProject[project] = stack
		}
		stack.Containers++

		if stack.WorkingDir == "" {
			stack.WorkingDir = labels[constants.LabelComposeWorkingDir]
			stack.ConfigFiles = splitConfigFiles(labels[constants.LabelComposeConfigFiles])
		}
	}

	stacks := make([]ActiveStack, 0, len(byProject))
	for _, stack := range byProject {
		stacks = append(stacks, *stack)
	}
	sort.Slice(stacks, func(i, j int) bool { return stacks[i].Project < stacks[j].Project })
	return stacks
}

// splitConfigFiles parses the comma separated config_files label
func splitConfigFiles(value string) []string {
	if value == "" {
		return nil
	}
	var files []string
	for _, f := range strings.Split(value, ",") {
		if f = strings.TrimSpace(f); f != "" {
			files = append(files, f)
		}
	}
	return files
}

// hintsFromLabels returns the path hints of the first label set that has any
func hintsFromLabels(labelSets []map[string]string) *PathHints {
	hints := &PathHints{}
	for _, labels := range labelSets {
		dir := labels[constants.LabelComposeWorkingDir]
		files := splitConfigFiles(labels[constants.LabelComposeConfigFiles])
		if dir == "" && len(files) == 0 {
			continue
		}
		if dir != "" {
			hints.WorkingDir = &dir
		}
		hints.ConfigFiles = files
		break
	}
	return hints
}
