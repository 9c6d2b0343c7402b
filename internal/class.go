package internal

type class struct {
	name       string
	superclass *class
	methods    map[string]*function
}

func (c *class) findMethod(name string) *function {
	if method, ok := c.methods[name]; ok {
		return method
	}
	if c.superclass != nil {
		return c.superclass.findMethod(name)
	}
	return nil
}

func (c *class) arity() int {
	if init := c.findMethod("init"); init != nil {
		return init.arity()
	}
	return 0
}

func (c *class) call(exec *exec, arguments []interface{}) (interface{}, error) {
	obj := newObject(c)
	if init := c.findMethod("init"); init != nil {
		if _, err := init.bind(obj).call(exec, arguments); err != nil {
			return nil, err
		}
	}
	return obj, nil
}

func (c *class) String() string {
	return c.name
}
