package server

// EmbeddingScript is the Python HTTP service the maharajah-embed sidecar
// runs inside its embedded interpreter. It loads a sentence-transformers
// model once at startup and serves batched embedding requests over
// loopback HTTP, matching the request/response shape local.go speaks.
const EmbeddingScript = `
import json
from http.server import BaseHTTPRequestHandler, ThreadingHTTPServer

from sentence_transformers import SentenceTransformer

MODEL_NAME = "nomic-ai/CodeRankEmbed"
model = SentenceTransformer(MODEL_NAME, trust_remote_code=True)


class Handler(BaseHTTPRequestHandler):
    def log_message(self, fmt, *args):
        pass

    def do_GET(self):
        self.send_response(200)
        self.send_header("Content-Type", "application/json")
        self.end_headers()
        self.wfile.write(json.dumps({"status": "ok", "model": MODEL_NAME}).encode())

    def do_POST(self):
        if self.path != "/embed":
            self.send_response(404)
            self.end_headers()
            return

        length = int(self.headers.get("Content-Length", 0))
        payload = json.loads(self.rfile.read(length) or b"{}")
        texts = payload.get("texts", [])

        vectors = model.encode(texts, normalize_embeddings=True).tolist()

        self.send_response(200)
        self.send_header("Content-Type", "application/json")
        self.end_headers()
        self.wfile.write(json.dumps({"embeddings": vectors}).encode())


if __name__ == "__main__":
    ThreadingHTTPServer(("127.0.0.1", 8121), Handler).serve_forever()
`
