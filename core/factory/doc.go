// Package factory provides a small generic registry used to instantiate modules
// from configuration. Modules are defined by a type string and a map of raw
// settings. Factories decode the settings into typed structs and return the
// concrete implementation.
//
// Dataset loaders and metrics sinks are both built this way:
//
//	reg := factory.NewRegistry[dataset.Loader]()
//	reg.Register("csv", func(conf map[string]any) (dataset.Loader, error) {
//	    var c struct{ Delimiter string `json:"delimiter"` }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return NewCSVLoader(c.Delimiter), nil
//	})
//	l, err := reg.Create(factory.ModuleConfig{Type: "csv", Conf: map[string]any{"delimiter": ";"}})
package factory
