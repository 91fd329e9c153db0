// Copyright 2026 The cedar-java Authors
// SPDX-License-Identifier: Apache-2.0

package heap

import (
	"fmt"

	"github.com/felixzheng98/cedar-java/lib/managed"
)

// Constructor builds the state of a new instance from constructor
// arguments. Returning an error (normally an *Exception) aborts the
// allocation.
type Constructor func(h *Heap, args []managed.Value) (any, error)

// Method implements an instance method.
type Method func(h *Heap, self *Object, args []managed.Value) (managed.Value, error)

// StaticMethod implements a static method.
type StaticMethod func(h *Heap, args []managed.Value) (managed.Value, error)

// Class describes a managed class: its fully qualified slash-separated
// name, an optional constructor, and its methods. A class with a nil
// Constructor cannot be instantiated through NewObject; library code
// may still create instances with [Heap.Alloc].
type Class struct {
	Name        string
	Constructor Constructor
	Methods     map[string]Method
	Statics     map[string]StaticMethod
}

// Object is a managed object. State is owned by the class that
// created it; other classes must treat it as opaque.
type Object struct {
	class *Class
	State any
}

// Class returns the object's runtime class.
func (o *Object) Class() *Class { return o.class }

// Call is one entry in the heap's invocation log.
type Call struct {
	Class  string
	Method string
	Static bool
}

func (c Call) String() string {
	if c.Static {
		return c.Class + "::" + c.Method
	}
	return c.Class + "." + c.Method
}

// Heap is an in-process managed runtime. It implements
// [managed.Runtime] over a table of local references.
//
// Objects are never freed: reclamation belongs to the managed side and
// is outside what native code may observe. Local references are
// released through DeleteLocal.
//
// Heap is not safe for concurrent use.
type Heap struct {
	classes map[string]*Class
	locals  map[managed.Handle]*Object
	next    managed.Handle
	calls   []Call
}

// New returns an empty heap with only java/lang/String defined.
func New() *Heap {
	h := &Heap{
		classes: make(map[string]*Class),
		locals:  make(map[managed.Handle]*Object),
	}
	h.classes[ClassString] = &Class{
		Name:    ClassString,
		Methods: stringMethods(),
	}
	return h
}

// Define registers a class. Defining the same name twice is an error.
func (h *Heap) Define(c *Class) error {
	if c == nil || c.Name == "" {
		return fmt.Errorf("heap: class name is empty")
	}
	if _, exists := h.classes[c.Name]; exists {
		return fmt.Errorf("heap: class %s already defined", c.Name)
	}
	h.classes[c.Name] = c
	return nil
}

// Class looks up a defined class by name.
func (h *Heap) Class(name string) (*Class, bool) {
	c, ok := h.classes[name]
	return c, ok
}

// Alloc creates an object of the named class without running a
// constructor. Used by library code that builds instances internally
// (factory methods, getters returning fresh objects).
func (h *Heap) Alloc(class string, state any) (*Object, error) {
	c, ok := h.classes[class]
	if !ok {
		return nil, Throw(NoClassDefFoundError, class)
	}
	return &Object{class: c, State: state}, nil
}

// Local creates a new local reference to o and returns its handle. A
// nil object yields the null handle.
func (h *Heap) Local(o *Object) managed.Handle {
	if o == nil {
		return managed.NullHandle
	}
	h.next++
	h.locals[h.next] = o
	return h.next
}

// Deref resolves a handle to its object. The null handle resolves to
// nil without error; an unknown or released handle is an error.
func (h *Heap) Deref(handle managed.Handle) (*Object, error) {
	if handle == managed.NullHandle {
		return nil, nil
	}
	o, ok := h.locals[handle]
	if !ok {
		return nil, fmt.Errorf("heap: invalid local reference %d", handle)
	}
	return o, nil
}

// Calls returns a copy of the invocation log: every constructor,
// instance method, and static method run since the last ResetCalls.
func (h *Heap) Calls() []Call {
	out := make([]Call, len(h.calls))
	copy(out, h.calls)
	return out
}

// ResetCalls clears the invocation log.
func (h *Heap) ResetCalls() { h.calls = nil }

// LiveLocals returns the number of unreleased local references.
func (h *Heap) LiveLocals() int { return len(h.locals) }

func (h *Heap) record(class, method string, static bool) {
	h.calls = append(h.calls, Call{Class: class, Method: method, Static: static})
}

// ClassName implements managed.Runtime.
func (h *Heap) ClassName(handle managed.Handle) (string, error) {
	o, err := h.Deref(handle)
	if err != nil {
		return "", err
	}
	if o == nil {
		return "", Throw(NullPointerException, "getClass on null")
	}
	return o.class.Name, nil
}

// NewObject implements managed.Runtime.
func (h *Heap) NewObject(class string, args ...managed.Value) (managed.Handle, error) {
	c, ok := h.classes[class]
	if !ok {
		return managed.NullHandle, Throw(NoClassDefFoundError, class)
	}
	if c.Constructor == nil {
		return managed.NullHandle, Throw(InstantiationException, class)
	}
	h.record(class, "<init>", false)
	state, err := c.Constructor(h, args)
	if err != nil {
		return managed.NullHandle, err
	}
	return h.Local(&Object{class: c, State: state}), nil
}

// CallMethod implements managed.Runtime.
func (h *Heap) CallMethod(handle managed.Handle, method string, args ...managed.Value) (managed.Value, error) {
	o, err := h.Deref(handle)
	if err != nil {
		return managed.Value{}, err
	}
	if o == nil {
		return managed.Value{}, Throw(NullPointerException, "invoking "+method+" on null")
	}
	m, ok := o.class.Methods[method]
	if !ok {
		return managed.Value{}, Throw(NoSuchMethodError, o.class.Name+"."+method)
	}
	h.record(o.class.Name, method, false)
	return m(h, o, args)
}

// CallStatic implements managed.Runtime.
func (h *Heap) CallStatic(class, method string, args ...managed.Value) (managed.Value, error) {
	c, ok := h.classes[class]
	if !ok {
		return managed.Value{}, Throw(NoClassDefFoundError, class)
	}
	m, ok := c.Statics[method]
	if !ok {
		return managed.Value{}, Throw(NoSuchMethodError, class+"::"+method)
	}
	h.record(class, method, true)
	return m(h, args)
}

// NewString implements managed.Runtime.
func (h *Heap) NewString(s string) (managed.Handle, error) {
	return h.Local(h.StringObject(s)), nil
}

// StringObject creates a java/lang/String object without a local
// reference, for library code that stores strings in object state.
func (h *Heap) StringObject(s string) *Object {
	return &Object{class: h.classes[ClassString], State: s}
}

// StringUTF implements managed.Runtime.
func (h *Heap) StringUTF(handle managed.Handle) ([]byte, error) {
	o, err := h.Deref(handle)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, Throw(NullPointerException, "GetStringUTFChars on null")
	}
	s, ok := o.State.(string)
	if !ok || o.class.Name != ClassString {
		return nil, Throw(ClassCastException, o.class.Name+" cannot be cast to "+ClassString)
	}
	return []byte(s), nil
}

// IsSameObject implements managed.Runtime.
func (h *Heap) IsSameObject(a, b managed.Handle) bool {
	oa, errA := h.Deref(a)
	ob, errB := h.Deref(b)
	if errA != nil || errB != nil {
		return false
	}
	return oa == ob
}

// DeleteLocal implements managed.Runtime.
func (h *Heap) DeleteLocal(handle managed.Handle) {
	delete(h.locals, handle)
}

// ObjectArg resolves argument i as an object (nil for null). Missing
// arguments and primitives raise IllegalArgumentException.
func (h *Heap) ObjectArg(args []managed.Value, i int) (*Object, error) {
	if i >= len(args) {
		return nil, Throw(IllegalArgumentException, fmt.Sprintf("missing argument %d", i))
	}
	if args[i].Kind() != managed.KindObject {
		return nil, Throw(IllegalArgumentException, fmt.Sprintf("argument %d is %s, expected object", i, args[i].Kind()))
	}
	o, err := h.Deref(args[i].Handle())
	if err != nil {
		return nil, Throw(IllegalArgumentException, err.Error())
	}
	return o, nil
}

// NonNullArg is ObjectArg that raises NullPointerException for null,
// using what to describe the argument in the message.
func (h *Heap) NonNullArg(args []managed.Value, i int, what string) (*Object, error) {
	o, err := h.ObjectArg(args, i)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, Throw(NullPointerException, what+" is null")
	}
	return o, nil
}

// IntArg resolves argument i as an int primitive.
func (h *Heap) IntArg(args []managed.Value, i int) (int32, error) {
	if i >= len(args) {
		return 0, Throw(IllegalArgumentException, fmt.Sprintf("missing argument %d", i))
	}
	if args[i].Kind() != managed.KindInt {
		return 0, Throw(IllegalArgumentException, fmt.Sprintf("argument %d is %s, expected int", i, args[i].Kind()))
	}
	return args[i].Int(), nil
}

// Return returns o as an object result with a new local reference.
func (h *Heap) Return(o *Object) managed.Value {
	return managed.ObjectValue(h.Local(o))
}

// GoString returns the contents of a java/lang/String object. Raises
// ClassCastException for any other class.
func GoString(o *Object) (string, error) {
	if o == nil {
		return "", Throw(NullPointerException, "string is null")
	}
	s, ok := o.State.(string)
	if !ok || o.class.Name != ClassString {
		return "", Throw(ClassCastException, o.class.Name+" cannot be cast to "+ClassString)
	}
	return s, nil
}

func stringMethods() map[string]Method {
	return map[string]Method{
		"length": func(h *Heap, self *Object, args []managed.Value) (managed.Value, error) {
			s, _ := self.State.(string)
			return managed.IntValue(int32(len([]rune(s)))), nil
		},
		"toString": func(h *Heap, self *Object, args []managed.Value) (managed.Value, error) {
			return h.Return(self), nil
		},
	}
}
