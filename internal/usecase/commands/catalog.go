package commands

// CommandDescriptor expone metadatos de cada comando interno para mostrarlos en el overlay.
type CommandDescriptor struct {
	Description string
	Usage       string
	Permission  string
}

const (
	PermissionEveryone    = "everyone"
	PermissionMod         = "mod"
	PermissionBroadcaster = "broadcaster"
)

var builtinCatalog = map[string]CommandDescriptor{
	"time":          {Description: "Hora local del stream.", Usage: "!time", Permission: PermissionEveryone},
	"compliment":    {Description: "Un cumplido al azar para alguien del chat.", Usage: "!compliment [@usuario]", Permission: PermissionEveryone},
	"quote":         {Description: "Una cita al azar.", Usage: "!quote", Permission: PermissionEveryone},
	"promote":       {Description: "Anuncia el stream en Discord.", Usage: "!promote <mensaje>", Permission: PermissionBroadcaster},
	"so":            {Description: "Shoutout a otro streamer con su último juego.", Usage: "!so <usuario>", Permission: PermissionMod},
	"vod":           {Description: "Enlace al VOD en el momento actual.", Usage: "!vod", Permission: PermissionMod},
	"command":       {Description: "Administra los comandos generales.", Usage: "!cmd add|edit|delete <nombre> [respuesta]", Permission: PermissionMod},
	"mcmd":          {Description: "Administra los comandos para mods.", Usage: "!mcmd add|edit|delete <nombre> [respuesta]", Permission: PermissionMod},
	"addquote":      {Description: "Agrega una cita.", Usage: "!addquote <texto>", Permission: PermissionMod},
	"addtimer":      {Description: "Agrega un mensaje de relleno.", Usage: "!addtimer <texto>", Permission: PermissionMod},
	"addcompliment": {Description: "Agrega un cumplido.", Usage: "!addcompliment <texto>", Permission: PermissionMod},
	"define":        {Description: "Definición de una palabra en inglés.", Usage: "!define <palabra>", Permission: PermissionEveryone},
	"convert":       {Description: "Convierte unidades de longitud, velocidad, volumen o temperatura.", Usage: "!convert 10 ft -> m", Permission: PermissionEveryone},
}

// Describe devuelve el descriptor de un comando interno, o uno vacío.
func Describe(name string) CommandDescriptor {
	return builtinCatalog[name]
}
