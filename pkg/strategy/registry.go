package strategy

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"

	"github.com/pkg/errors"
)

var LoadedStrategies = make(map[string]Strategy)

// Register registers a strategy prototype under the key, it is called from
// the init function of the strategy packages.
func Register(key string, s Strategy) {
	if _, exists := LoadedStrategies[key]; exists {
		panic(fmt.Errorf("strategy %s is already registered", key))
	}

	LoadedStrategies[key] = s
}

// Registered returns the sorted keys of the registered strategies.
func Registered() []string {
	keys := make([]string, 0, len(LoadedStrategies))
	for key := range LoadedStrategies {
		keys = append(keys, key)
	}

	sort.Strings(keys)
	return keys
}

// NewFromMap allocates a new strategy of the registered type and loads the
// configuration into it.
func NewFromMap(id string, conf interface{}) (Strategy, error) {
	st, ok := LoadedStrategies[id]
	if !ok {
		return nil, fmt.Errorf("strategy %s not found", id)
	}

	val, err := reUnmarshal(conf, st)
	if err != nil {
		return nil, errors.Wrapf(err, "strategy %s", id)
	}

	return val.(Strategy), nil
}

func reUnmarshal(conf interface{}, tpe interface{}) (interface{}, error) {
	// get the type "Strategy" from "*Strategy"
	rt := reflect.TypeOf(tpe)
	if rt.Kind() == reflect.Ptr {
		rt = rt.Elem()
	}

	// allocate new object from the given type
	val := reflect.New(rt)

	plain, err := json.Marshal(conf)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(plain, val.Interface()); err != nil {
		return nil, errors.Wrapf(err, "json parsing error, given payload: %s", plain)
	}

	return val.Interface(), nil
}
