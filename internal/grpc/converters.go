package grpc

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/Belphemur/CounterView/internal/models"
)

// maxExactCounter is the largest counter magnitude a Struct number holds exactly.
const maxExactCounter = 1 << 53

// counterFitsProto reports whether counter survives the Struct number conversion.
func counterFitsProto(counter int64) bool {
	return counter >= -maxExactCounter && counter <= maxExactCounter
}

// convertLoadResultToProto converts a LoadResult to the renderer's Struct shape.
// Callers check counterFitsProto first.
func convertLoadResultToProto(result models.LoadResult) *structpb.Struct {
	return &structpb.Struct{
		Fields: map[string]*structpb.Value{
			"error":   structpb.NewBoolValue(result.Error),
			"counter": structpb.NewNumberValue(float64(result.Counter)),
		},
	}
}

// convertLoadResultFromProto converts a Struct back to a LoadResult, rejecting
// shapes that break the error/counter invariant.
func convertLoadResultFromProto(s *structpb.Struct) (models.LoadResult, error) {
	errValue, ok := s.GetFields()["error"]
	if !ok {
		return models.LoadResult{}, fmt.Errorf("load result: missing error field")
	}
	counterValue, ok := s.GetFields()["counter"]
	if !ok {
		return models.LoadResult{}, fmt.Errorf("load result: missing counter field")
	}

	flag, ok := errValue.GetKind().(*structpb.Value_BoolValue)
	if !ok {
		return models.LoadResult{}, fmt.Errorf("load result: error field is not a bool")
	}
	number, ok := counterValue.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return models.LoadResult{}, fmt.Errorf("load result: counter field is not a number")
	}

	if flag.BoolValue {
		if number.NumberValue != 0 {
			return models.LoadResult{}, fmt.Errorf("load result: error result with counter %v", number.NumberValue)
		}
		return models.Failure{}.Result(), nil
	}
	v := number.NumberValue
	if math.Trunc(v) != v || math.Abs(v) > maxExactCounter {
		return models.LoadResult{}, fmt.Errorf("load result: counter %v is not an exact integer", v)
	}
	return models.Success{Counter: int64(v)}.Result(), nil
}
