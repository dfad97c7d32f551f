package entity

import (
	"fmt"
	"image/color"
)

// Класс фона зарезервирован под id 0.
const (
	BackgroundID   = 0
	BackgroundName = "Background"
)

// ClassMapping неизменяемая таблица классов: имя, идентификатор и цвет.
// Создаётся один раз при старте и передаётся компонентам по указателю.
type ClassMapping struct {
	names  []string
	ids    map[string]int
	colors map[int]color.RGBA
}

// NewClassMapping строит таблицу из упорядоченного списка имён (индекс = id).
func NewClassMapping(names []string, colors map[int]color.RGBA) (*ClassMapping, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("class mapping is empty")
	}
	if len(names) > 256 {
		return nil, fmt.Errorf("class mapping has %d classes, at most 256 fit in an 8-bit mask", len(names))
	}
	if names[BackgroundID] != BackgroundName {
		return nil, fmt.Errorf("class mapping: id %d must be %q, got %q", BackgroundID, BackgroundName, names[BackgroundID])
	}

	m := &ClassMapping{
		names:  make([]string, len(names)),
		ids:    make(map[string]int, len(names)),
		colors: make(map[int]color.RGBA, len(colors)),
	}
	copy(m.names, names)
	for id, name := range names {
		if _, dup := m.ids[name]; dup {
			return nil, fmt.Errorf("class mapping: duplicate class %q", name)
		}
		m.ids[name] = id
	}
	for id, c := range colors {
		m.colors[id] = c
	}
	return m, nil
}

// DefaultClassMapping возвращает 18 классов модели segformer_b3_clothes.
func DefaultClassMapping() *ClassMapping {
	m, err := NewClassMapping(defaultClassNames, defaultClassColors)
	if err != nil {
		panic(err)
	}
	return m
}

var defaultClassNames = []string{
	"Background",
	"Hat",
	"Hair",
	"Sunglasses",
	"Upper-clothes",
	"Skirt",
	"Pants",
	"Dress",
	"Belt",
	"Left-shoe",
	"Right-shoe",
	"Face",
	"Left-leg",
	"Right-leg",
	"Left-arm",
	"Right-arm",
	"Bag",
	"Scarf",
}

var defaultClassColors = map[int]color.RGBA{
	1:  {R: 255, G: 255, B: 0, A: 255},   // Hat
	2:  {R: 255, G: 165, B: 0, A: 255},   // Hair
	3:  {R: 255, G: 0, B: 255, A: 255},   // Sunglasses
	4:  {R: 255, G: 0, B: 0, A: 255},     // Upper-clothes
	5:  {R: 0, G: 255, B: 255, A: 255},   // Skirt
	6:  {R: 0, G: 255, B: 0, A: 255},     // Pants
	7:  {R: 0, G: 0, B: 255, A: 255},     // Dress
	8:  {R: 128, G: 0, B: 128, A: 255},   // Belt
	9:  {R: 255, G: 140, B: 0, A: 255},   // Left-shoe
	10: {R: 139, G: 69, B: 19, A: 255},   // Right-shoe
	11: {R: 255, G: 220, B: 177, A: 255}, // Face
	12: {R: 205, G: 170, B: 125, A: 255}, // Left-leg
	13: {R: 185, G: 150, B: 105, A: 255}, // Right-leg
	14: {R: 225, G: 190, B: 145, A: 255}, // Left-arm
	15: {R: 165, G: 130, B: 85, A: 255},  // Right-arm
	16: {R: 255, G: 82, B: 243, A: 255},  // Bag
	17: {R: 255, G: 20, B: 147, A: 255},  // Scarf
}

// Len возвращает количество классов
func (m *ClassMapping) Len() int {
	return len(m.names)
}

// Name возвращает имя класса по id
func (m *ClassMapping) Name(id int) (string, bool) {
	if id < 0 || id >= len(m.names) {
		return "", false
	}
	return m.names[id], true
}

// ID возвращает id класса по имени
func (m *ClassMapping) ID(name string) (int, bool) {
	id, ok := m.ids[name]
	return id, ok
}

// Names возвращает копию упорядоченного списка имён
func (m *ClassMapping) Names() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// Color возвращает цвет класса; у фона цвета нет.
func (m *ClassMapping) Color(id int) (color.RGBA, bool) {
	c, ok := m.colors[id]
	return c, ok
}

// Validate проверяет, что все пиксели маски лежат в [0, Len()).
func (m *ClassMapping) Validate(mask *LabelMask) error {
	for i, v := range mask.Pix {
		if int(v) >= len(m.names) {
			return fmt.Errorf("%w: pixel %d has class id %d, expected 0-%d",
				ErrInvalidMask, i, v, len(m.names)-1)
		}
	}
	return nil
}

// LabelMask двумерная сетка идентификаторов классов, построчно.
type LabelMask struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewLabelMask создаёт маску и проверяет согласованность размеров.
func NewLabelMask(width, height int, pix []uint8) (*LabelMask, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: invalid dimensions %dx%d", ErrInvalidMask, width, height)
	}
	if len(pix) != width*height {
		return nil, fmt.Errorf("%w: %d pixels for %dx%d mask", ErrInvalidMask, len(pix), width, height)
	}
	return &LabelMask{Width: width, Height: height, Pix: pix}, nil
}

// At возвращает класс пикселя (x, y)
func (m *LabelMask) At(x, y int) uint8 {
	return m.Pix[y*m.Width+x]
}

// SameShape сообщает, совпадают ли размеры двух масок
func (m *LabelMask) SameShape(other *LabelMask) bool {
	return m.Width == other.Width && m.Height == other.Height
}

// DistinctIDs возвращает присутствующие в маске id по возрастанию.
func (m *LabelMask) DistinctIDs() []int {
	var seen [256]bool
	for _, v := range m.Pix {
		seen[v] = true
	}
	ids := make([]int, 0, 8)
	for id, ok := range seen {
		if ok {
			ids = append(ids, id)
		}
	}
	return ids
}
