// Package xmlfactory implements the two-pass XML-to-BehaviorTree
// construction: canonicalizing the source, extracting named
// <BehaviorTree> definitions, then recursively instantiating the main
// definition through a behavior.Registry, expanding <SubTree> references
// with loop detection along the way.
package xmlfactory

import (
	"strconv"

	"github.com/google/uuid"

	"dimasbt/internal/behavior"
	"dimasbt/internal/blackboard"
	"dimasbt/internal/port"
	"dimasbt/internal/tree"
)

// Factory builds behavior trees from XML source against a fixed registry
// of behavior constructors.
type Factory struct {
	registry *behavior.Registry
}

// New returns a Factory that resolves element tags against registry.
func New(registry *behavior.Registry) *Factory {
	return &Factory{registry: registry}
}

// buildState carries the mutable bookkeeping threaded through one Build
// call: the definitions table from pass one, and the list of subtree root
// behaviors instantiated so far (main tree root first), addressable later
// via BehaviorTree.Subtree.
type buildState struct {
	defs     map[string]*element
	subtrees []behavior.Behavior
}

// Build parses xmlSource and constructs a runnable *tree.BehaviorTree.
func (f *Factory) Build(xmlSource string) (*tree.BehaviorTree, error) {
	canon := Canonicalize(xmlSource)
	root, err := parseDocument(canon)
	if err != nil {
		return nil, err
	}
	if root.Tag != "root" {
		return nil, &RootNameError{}
	}
	format, _ := attrValue(root.Attrs, "BTCPP_format")
	if format != "4" {
		return nil, &BtCppFormatError{}
	}
	mainID, ok := attrValue(root.Attrs, "main_tree_to_execute")
	if !ok || mainID == "" {
		return nil, &NoTreeToExecuteError{}
	}

	defs := make(map[string]*element)
	for _, child := range root.Children {
		switch child.Tag {
		case "TreeNodesModel":
			continue
		case "BehaviorTree":
			id, ok := attrValue(child.Attrs, "ID")
			if !ok || id == "" {
				return nil, &MissingIDError{Tag: "BehaviorTree"}
			}
			if _, has := attrValue(child.Attrs, "main_tree_to_execute"); has {
				return nil, &MainTreeNotAllowedError{ID: id}
			}
			if len(child.Children) == 0 {
				return nil, &RootNotFoundError{Path: id}
			}
			defs[id] = child.Children[0]
		default:
			return nil, &UnknownElementError{Name: child.Tag}
		}
	}

	state := &buildState{defs: defs}
	bb := blackboard.New()
	rootBehavior, err := f.buildDefinition(state, mainID, bb, mainID, nil)
	if err != nil {
		return nil, err
	}
	roots := append([]behavior.Behavior{rootBehavior}, state.subtrees...)
	return tree.New(rootBehavior, roots...), nil
}

// buildDefinition resolves id in the definitions table and builds its root
// element, the second construction pass. It does not itself record the
// result into state.subtrees, the main tree's root is recorded once by
// Build, and a <SubTree>'s root is recorded by expandSubTree, so the
// handle order is always [main tree, subtree expansions in the order their
// builds complete], so a nested subtree comes before the one containing it.
func (f *Factory) buildDefinition(state *buildState, id string, bb *blackboard.Blackboard, path string, stack []string) (behavior.Behavior, error) {
	def, ok := state.defs[id]
	if !ok {
		return nil, &SubtreeNotFoundError{ID: id}
	}
	return f.buildElement(state, def, bb, path, stack)
}

// buildElement constructs the Behavior for one XML element: a <SubTree>
// expands into its referenced definition; anything else is looked up in
// the registry, structurally validated by category, and built from its
// already-built children and ingested ports.
func (f *Factory) buildElement(state *buildState, el *element, bb *blackboard.Blackboard, path string, stack []string) (behavior.Behavior, error) {
	if el.Tag == "SubTree" {
		return f.expandSubTree(state, el, bb, path, stack)
	}

	manifest, ctor, ok := f.registry.Lookup(el.Tag)
	if !ok {
		return nil, &UnknownBehaviorError{Name: el.Tag}
	}

	switch manifest.Category {
	case behavior.Action, behavior.Condition:
		if len(el.Children) > 0 {
			return nil, &behavior.ChildrenNotAllowedError{Category: manifest.Category.String()}
		}
	case behavior.Decorator:
		if len(el.Children) != 1 {
			return nil, &behavior.DecoratorChildrenError{Name: el.Tag}
		}
	case behavior.Control:
		if len(el.Children) == 0 {
			return nil, &behavior.NodeStructureError{Reason: "control " + el.Tag + " requires at least one child"}
		}
	}

	instanceName, inputRemap, outputRemap, params, err := ingestAttrs(el, manifest)
	if err != nil {
		return nil, err
	}

	childPath := path
	if instanceName != el.Tag {
		childPath = path + "(" + instanceName + ")"
	}

	children := make([]behavior.Behavior, 0, len(el.Children))
	for _, c := range el.Children {
		name := c.Tag
		if n, ok := attrValue(c.Attrs, "name"); ok && n != "" {
			name = n
		}
		child, err := f.buildElement(state, c, bb, childPath+"->"+name, stack)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}

	cfg := behavior.Config{
		Blackboard:   bb,
		InputRemap:   inputRemap,
		OutputRemap:  outputRemap,
		Manifest:     manifest,
		UID:          uuid.NewString(),
		Path:         path,
		InstanceName: instanceName,
	}
	return ctor(instanceName, cfg, children, params)
}

// ingestAttrs ingests an element's attributes: "name" sets the instance
// name, "ID" and every other reserved attribute are skipped, and every
// remaining attribute is recorded verbatim into params for the constructor
// (control/decorator parameters like num_cycles are never declared ports)
// and, when it matches a declared port, also into the input or output
// remap table by that port's direction. An attribute matching no declared
// port is only an error when the manifest declares ports at all, a node
// with no declared ports (the built-in decorators) takes any attribute as
// a raw constructor parameter.
func ingestAttrs(el *element, manifest *behavior.Manifest) (instanceName string, inputRemap, outputRemap *port.Remapping, params map[string]string, err error) {
	instanceName = el.Tag
	inputRemap = port.NewRemapping()
	outputRemap = port.NewRemapping()
	params = make(map[string]string)

	ports, _ := manifest.Ports.(port.List)

	for _, a := range el.Attrs {
		name := a.Name.Local
		switch name {
		case "name":
			if a.Value != "" {
				instanceName = a.Value
			}
			continue
		case "ID":
			continue
		}
		if port.IsReserved(name) {
			continue
		}
		params[name] = a.Value

		def, found := ports.Find(name)
		if !found {
			if len(ports.All()) > 0 {
				return "", nil, nil, nil, &port.PortInvalidError{Attribute: name, Known: ports.Names()}
			}
			continue
		}
		switch def.Direction {
		case port.In:
			if err := inputRemap.Set(name, a.Value); err != nil {
				return "", nil, nil, nil, err
			}
		case port.Out:
			if err := outputRemap.Set(name, a.Value); err != nil {
				return "", nil, nil, nil, err
			}
		case port.InOut:
			if err := inputRemap.Set(name, a.Value); err != nil {
				return "", nil, nil, nil, err
			}
			if err := outputRemap.Set(name, a.Value); err != nil {
				return "", nil, nil, nil, err
			}
		}
	}
	return instanceName, inputRemap, outputRemap, params, nil
}

// expandSubTree expands a <SubTree> reference: loop detection against
// the current ancestor path, a fresh child blackboard wired by _autoremap
// and by-attribute manual remaps or literal writes, then a recursive build
// of the referenced definition using that child blackboard as scope.
func (f *Factory) expandSubTree(state *buildState, el *element, parent *blackboard.Blackboard, path string, stack []string) (behavior.Behavior, error) {
	id, ok := attrValue(el.Attrs, "ID")
	if !ok || id == "" {
		return nil, &MissingIDError{Tag: "SubTree"}
	}
	for _, s := range stack {
		if s == id {
			return nil, &LoopDetectedError{Path: loopPath(stack, id), ID: id}
		}
	}

	child := blackboard.NewChild(parent)
	for _, a := range el.Attrs {
		name := a.Name.Local
		switch name {
		case "ID", "name":
			continue
		case "_autoremap":
			enabled, _ := strconv.ParseBool(a.Value)
			child.SetAutoremap(enabled)
		default:
			if port.IsReserved(name) {
				continue
			}
			if key, isPointer := port.IsPointer(a.Value); isPointer {
				if key == "=" {
					key = name
				}
				if err := child.SetRemap(name, key); err != nil {
					return nil, err
				}
			} else if _, err := blackboard.Set(child, name, a.Value); err != nil {
				return nil, err
			}
		}
	}

	newStack := append(append([]string{}, stack...), id)
	b, err := f.buildDefinition(state, id, child, path+"->"+id, newStack)
	if err != nil {
		return nil, err
	}
	state.subtrees = append(state.subtrees, b)
	return b, nil
}

func loopPath(stack []string, id string) string {
	out := ""
	for _, s := range stack {
		if out == "" {
			out = s
		} else {
			out += "->" + s
		}
	}
	if out == "" {
		return id
	}
	return out + "->" + id
}
