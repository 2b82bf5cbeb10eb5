package objects

import (
	"github.com/kkkkkom/ezdxf/pkg/events"
	"github.com/kkkkkom/ezdxf/pkg/runtime"
)

// DXF type names of the supported object types.
const (
	TypeDictionary       = "DICTIONARY"
	TypeDictionaryWDFLT  = "ACDBDICTIONARYWDFLT"
	TypeDictionaryVar    = "DICTIONARYVAR"
	TypePlaceholder      = "ACDBPLACEHOLDER"
	TypeXRecord          = "XRECORD"
	TypeImageDef         = "IMAGEDEF"
	TypeImageDefReactor  = "IMAGEDEF_REACTOR"
	TypeRasterVariables  = "RASTERVARIABLES"
	TypeWipeoutVariables = "WIPEOUTVARIABLES"
	TypeGeoData          = "GEODATA"
	TypePdfDefinition    = "PDFDEFINITION"
	TypeDwfDefinition    = "DWFDEFINITION"
	TypeDgnDefinition    = "DGNDEFINITION"
)

type Scheme = runtime.Scheme[Object]
type Encoding = runtime.Encoding[Object]
type SchemeTypes = runtime.SchemeTypes[Object]

type pointer[P any] interface {
	Object
	*P
}

func MustRegisterType[T any, P pointer[T]](s Scheme, name string) {
	runtime.MustRegister[T, P](s, name)
}

// DefaultScheme knows all object types of this package. Unknown
// types found in files are kept as raw tag objects by the section
// loader.
var DefaultScheme = NewScheme()

func NewScheme() Scheme {
	s := runtime.NewYAMLScheme[Object](runtime.TypeExtractorFor[ObjectMeta]())
	MustRegisterType[Dictionary](s, TypeDictionary)
	MustRegisterType[DictionaryWithDefault](s, TypeDictionaryWDFLT)
	MustRegisterType[DictionaryVar](s, TypeDictionaryVar)
	MustRegisterType[Placeholder](s, TypePlaceholder)
	MustRegisterType[XRecord](s, TypeXRecord)
	MustRegisterType[ImageDef](s, TypeImageDef)
	MustRegisterType[ImageDefReactor](s, TypeImageDefReactor)
	MustRegisterType[RasterVariables](s, TypeRasterVariables)
	MustRegisterType[WipeoutVariables](s, TypeWipeoutVariables)
	MustRegisterType[GeoData](s, TypeGeoData)
	MustRegisterType[UnderlayDefinition](s, TypePdfDefinition)
	MustRegisterType[UnderlayDefinition](s, TypeDwfDefinition)
	MustRegisterType[UnderlayDefinition](s, TypeDgnDefinition)
	return s
}

// event plumbing

type ObjectLister = events.ObjectLister[EventId]
type EventHandler = events.EventHandler[EventId]
type HandlerRegistration = events.HandlerRegistration[EventId]
type HandlerRegistrationTest = events.HandlerRegistrationTest[EventId]
type HandlerRegistry = events.HandlerRegistry[EventId]

func NewHandlerRegistry(l ObjectLister) HandlerRegistry {
	return events.NewHandlerRegistry[EventId](l)
}
