// Package testkit holds fixtures and checks shared by the front-end tests.
package testkit

// SystemInterfaces declares the interfaces the runtime provides.
const SystemInterfaces = `
INTERFACE FileSystem;
	( IN New(name: TEXT) | IN Open(name: TEXT) )
	(
		OUT Done
		{
			IN SetPosition(position: INTEGER)
			| IN GetPosition OUT Position(pos: INTEGER)
			| IN GetLength OUT Length(len: INTEGER)
			| (IN ReadByte | IN ReadLine)
				( OUT Byte(x: CHARACTER) | OUT Line(x: TEXT) | OUT EOF )
			| IN Write(x: CHARACTER) | IN WriteText(x: TEXT)
			| IN Update
		}
		IN Close | OUT Failed
	)
END FileSystem;

INTERFACE SystemTime;
	IN GetSystemTime OUT SystemTime(ticks: INTEGER)
END SystemTime;

INTERFACE GraphicView;
	{
		IN Clear
		| IN GetSize OUT Size(width, height, bgColor: INTEGER)
		| IN Pixel(x, y, color: INTEGER)
		| IN Font(x, y: INTEGER; char: CHARACTER; color: INTEGER) | IN Fill(x, y, w, h, color: INTEGER)
		| IN SetLayer(level: INTEGER) | IN DrawLayers
	}
END GraphicView;
`

const HelloWorld = `COMPONENT {ENTRYPOINT} HelloWorld;
	BEGIN
		WRITE("Hello World"); WRITELINE
	END HelloWorld;
`

// Echo answers pings through an offered interface; Clock uses a runtime
// service.
const Echo = `INTERFACE Control;
	{ IN Ping } IN Stop
END Control;

COMPONENT Echo OFFERS Control;
	IMPLEMENTATION Control;
	BEGIN
		WHILE ?Ping DO ?Ping END;
		IF ?FINISH THEN WRITELINE END
	END Control;
END Echo;

COMPONENT Clock REQUIRES SystemTime;
	VARIABLE t: INTEGER;
	BEGIN
		SystemTime!GetSystemTime; SystemTime?SystemTime(t)
	END Clock;
`

// Programs are well-formed sources that compile without errors.
var Programs = map[string]string{
	"hello": HelloWorld,
	"echo":  SystemInterfaces + Echo,
}

// Malformed sources fail somewhere in the front end.
var Malformed = []string{
	"COMPONENT A; BEGIN WRITE(\"open END A;",
	"COMPONENT A; BEGIN x := 1 END A;",
	"COMPONENT A BEGIN END A;",
	"COMPONENT A; BEGIN END B;",
	"(* unterminated",
}
