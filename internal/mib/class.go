package mib

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set"
)

// AlarmDef names one alarm bit of a MIB class, in bit-position order.
type AlarmDef struct {
	Bit         int
	Description string
}

// Class is a MIB class (a.k.a. Managed Entity class): its attributes
// indexed by number and name, the actions (message types) it supports,
// its alarms in bit-position order, and the attribute numbers that may
// generate an Attribute Value Change notification.
type Class struct {
	Number      int
	Name        string
	Description string

	// MessageTypes is the set of OMCI actions this class supports,
	// mirroring the opencord omci-lib-go generated ME definitions'
	// mapset.Set of supported message types.
	MessageTypes mapset.Set

	Alarms  []AlarmDef
	Changes []int // attribute numbers that can raise an AttributeValueChange

	attrsByNumber map[int]*Attribute
	attrsByName   map[string]*Attribute
	attrsOrdered  []*Attribute
}

// NewClass constructs an empty Class ready to receive attributes via
// AddAttribute.
func NewClass(number int, name, description string) *Class {
	return &Class{
		Number:        number,
		Name:          name,
		Description:   description,
		MessageTypes:  mapset.NewSet(),
		attrsByNumber: make(map[int]*Attribute),
		attrsByName:   make(map[string]*Attribute),
	}
}

// AddAttribute registers attr under both its number and its name. It
// panics (a registration-time assertion failure, per the fatal-error
// policy) on a duplicate number or name.
func (c *Class) AddAttribute(attr *Attribute) *Class {
	if _, exists := c.attrsByNumber[attr.Number]; exists {
		panic(fmt.Sprintf("mib: class %d attribute number %d already registered", c.Number, attr.Number))
	}
	if _, exists := c.attrsByName[attr.Name]; exists {
		panic(fmt.Sprintf("mib: class %d attribute name %q already registered", c.Number, attr.Name))
	}
	c.attrsByNumber[attr.Number] = attr
	c.attrsByName[attr.Name] = attr
	c.attrsOrdered = append(c.attrsOrdered, attr)
	sort.Slice(c.attrsOrdered, func(i, j int) bool {
		return c.attrsOrdered[i].Number < c.attrsOrdered[j].Number
	})
	return c
}

// WithActions adds message types to the class's supported-actions set.
func (c *Class) WithActions(types ...MessageType) *Class {
	for _, t := range types {
		c.MessageTypes.Add(t)
	}
	return c
}

// WithAlarm appends one alarm definition.
func (c *Class) WithAlarm(bit int, description string) *Class {
	c.Alarms = append(c.Alarms, AlarmDef{Bit: bit, Description: description})
	return c
}

// WithChange marks an attribute number as AVC-capable.
func (c *Class) WithChange(attrNumber int) *Class {
	c.Changes = append(c.Changes, attrNumber)
	return c
}

// Attrs returns every attribute in ascending number order.
func (c *Class) Attrs() []*Attribute {
	return c.attrsOrdered
}

// AttrByNumber looks up an attribute by its number; O(1).
func (c *Class) AttrByNumber(number int) *Attribute {
	return c.attrsByNumber[number]
}

// AttrByName looks up an attribute by its name; O(1) average.
func (c *Class) AttrByName(name string) *Attribute {
	return c.attrsByName[name]
}

// Attr resolves key as either an attribute number (if it is a
// decimal-digit string) or an attribute name, per the mib.attr(k)
// name-or-number disambiguation rule.
func (c *Class) Attr(key string) *Attribute {
	if isNumeric(key) {
		n, err := strconv.Atoi(key)
		if err != nil {
			return nil
		}
		return c.AttrByNumber(n)
	}
	return c.AttrByName(key)
}

// AttrNames returns the comma-separated "number (name)" list of
// attributes whose access matches one of filters (or all attributes, if
// no filter is given), in ascending number order.
func (c *Class) AttrNames(filters ...Access) string {
	filterSet := normalizeAccessFilter(filters)
	parts := make([]string, 0, len(c.attrsOrdered))
	for _, a := range c.attrsOrdered {
		if filterSet != nil && !filterSet[a.Access] {
			continue
		}
		parts = append(parts, fmt.Sprintf("%d (%s)", a.Number, a.Name))
	}
	return strings.Join(parts, ", ")
}

func (c *Class) String() string {
	return fmt.Sprintf("%d(%s)", c.Number, c.Name)
}
