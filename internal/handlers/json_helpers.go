package handlers

import (
	"encoding/json"
	"net/http"
	"reflect"
	"time"
)

var timeType = reflect.TypeOf(time.Time{})

// JSONResponse writes data as JSON. Nil slices anywhere in data are encoded
// as [] rather than null.
func JSONResponse(w http.ResponseWriter, data any) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(normalizeSlices(data))
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	body, err := json.Marshal(normalizeSlices(payload))
	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Internal server error"}`))
		return
	}
	w.WriteHeader(code)
	_, _ = w.Write(append(body, '\n'))
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// normalizeSlices returns a copy of data in which every nil slice reachable
// through pointers, slices and exported struct fields is empty
func normalizeSlices(data any) any {
	if data == nil {
		return nil
	}
	v := reflect.ValueOf(data)
	out := normalizeValue(v)
	if !out.IsValid() {
		return data
	}
	return out.Interface()
}

func normalizeValue(v reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() || v.Elem().Type() == timeType {
			return v
		}
		p := reflect.New(v.Elem().Type())
		p.Elem().Set(normalizeValue(v.Elem()))
		return p

	case reflect.Slice:
		if v.IsNil() {
			return reflect.MakeSlice(v.Type(), 0, 0)
		}
		s := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := range v.Len() {
			s.Index(i).Set(normalizeValue(v.Index(i)))
		}
		return s

	case reflect.Struct:
		if v.Type() == timeType {
			return v
		}
		s := reflect.New(v.Type()).Elem()
		for i := range v.NumField() {
			if !v.Type().Field(i).IsExported() {
				continue
			}
			s.Field(i).Set(normalizeValue(v.Field(i)))
		}
		return s

	default:
		return v
	}
}
