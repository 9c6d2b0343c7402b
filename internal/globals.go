package internal

import "time"

func defineGlobals(e *env, p IPrinter) {
	defineClock(e)
	definePrint(e, p)
}

func defineClock(e *env) {
	start := time.Now()
	e.define("clock", &nativeFn{
		name:       "clock",
		arityValue: 0,
		callFn: func(arguments []interface{}) (interface{}, error) {
			return time.Since(start).Seconds(), nil
		},
	})
}

func definePrint(e *env, p IPrinter) {
	e.define("print", &nativeFn{
		name:       "print",
		arityValue: 1,
		callFn: func(arguments []interface{}) (interface{}, error) {
			if _, err := p.Println(stringify(arguments[0])); err != nil {
				return nil, err
			}
			return nil, nil
		},
	})
}
