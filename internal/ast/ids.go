package ast

type (
	// главные сущности
	FileID uint32
	ItemID uint32
	StmtID uint32
	ExprID uint32
	TypeID uint32
	// подсущности
	PayloadID uint32
	SeqID     uint32 // statement sequence
	DeclID    uint32 // one declared name: variable, constant or parameter
	ProtoID   uint32 // protocol expression node
)

const (
	NoFileID    FileID    = 0
	NoItemID    ItemID    = 0
	NoStmtID    StmtID    = 0
	NoExprID    ExprID    = 0
	NoTypeID    TypeID    = 0
	NoPayloadID PayloadID = 0
	NoSeqID     SeqID     = 0
	NoDeclID    DeclID    = 0
	NoProtoID   ProtoID   = 0
)

func (id FileID) IsValid() bool    { return id != NoFileID }
func (id ItemID) IsValid() bool    { return id != NoItemID }
func (id StmtID) IsValid() bool    { return id != NoStmtID }
func (id ExprID) IsValid() bool    { return id != NoExprID }
func (id TypeID) IsValid() bool    { return id != NoTypeID }
func (id PayloadID) IsValid() bool { return id != NoPayloadID }
func (id SeqID) IsValid() bool     { return id != NoSeqID }
func (id DeclID) IsValid() bool    { return id != NoDeclID }
func (id ProtoID) IsValid() bool   { return id != NoProtoID }
