package compatibility

import (
	"github.com/truongquocminh/bloodbank/pkg/application/dto"
	"github.com/truongquocminh/bloodbank/pkg/domain/entities"
)

const (
	ComponentMatrixKind   = "component"
	TransfusionMatrixKind = "transfusion"
)

// ComponentMatrix lays out blood types as rows and components as columns
func (e Engine) ComponentMatrix(bloodTypes []entities.BloodType, components []entities.BloodComponent) dto.Matrix {
	matrix := dto.Matrix{
		Kind:    ComponentMatrixKind,
		Rows:    typeAxis(bloodTypes),
		Columns: componentAxis(components),
		Cells:   make([][]bool, len(bloodTypes)),
		Stats:   e.ComputeStats(bloodTypes, components, ModeComponent),
	}

	for i, bt := range bloodTypes {
		row := make([]bool, len(components))
		for j, c := range components {
			row[j] = e.IsComponentCompatible(bt, c)
		}
		matrix.Cells[i] = row
	}

	return matrix
}

// TransfusionMatrix lays out donors as rows and recipients as columns
func (e Engine) TransfusionMatrix(bloodTypes []entities.BloodType) dto.Matrix {
	matrix := dto.Matrix{
		Kind:    TransfusionMatrixKind,
		Rows:    typeAxis(bloodTypes),
		Columns: typeAxis(bloodTypes),
		Cells:   make([][]bool, len(bloodTypes)),
		Stats:   e.ComputeStats(bloodTypes, nil, ModeBloodType),
	}

	for i, donor := range bloodTypes {
		row := make([]bool, len(bloodTypes))
		for j, recipient := range bloodTypes {
			row[j] = e.IsBloodTypeCompatible(donor, recipient)
		}
		matrix.Cells[i] = row
	}

	return matrix
}

func typeAxis(bloodTypes []entities.BloodType) []dto.MatrixAxis {
	axis := make([]dto.MatrixAxis, len(bloodTypes))
	for i, bt := range bloodTypes {
		axis[i] = dto.MatrixAxis{ID: int64(bt.ID), Label: bt.TypeName}
	}
	return axis
}

func componentAxis(components []entities.BloodComponent) []dto.MatrixAxis {
	axis := make([]dto.MatrixAxis, len(components))
	for i, c := range components {
		axis[i] = dto.MatrixAxis{ID: int64(c.ComponentID), Label: c.ComponentName}
	}
	return axis
}
