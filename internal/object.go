package internal

type object struct {
	class  *class
	fields map[string]interface{}
}

func newObject(c *class) *object {
	return &object{
		class:  c,
		fields: make(map[string]interface{}),
	}
}

// get prefers fields over methods, methods come back bound to the object
func (o *object) get(tk *token) (interface{}, error) {
	if val, ok := o.fields[tk.lexeme]; ok {
		return val, nil
	}
	if method := o.class.findMethod(tk.lexeme); method != nil {
		return method.bind(o), nil
	}
	return nil, newRuntimeError(errUndefinedProp, tk, "Undefined property '%s'.", tk.lexeme)
}

func (o *object) set(name *token, value interface{}) {
	o.fields[name.lexeme] = value
}

func (o *object) String() string {
	return o.class.name + " instance"
}
